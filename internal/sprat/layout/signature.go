package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pedroac/sprat/internal/sprat/source"
)

// SignatureInputs bundles everything that participates in a layout
// signature (spec §3 "Layout signature"). Padding is included in the full
// signature and omitted from the seed signature.
type SignatureInputs struct {
	Profile          string
	Mode             Mode
	Objective        Objective
	MaxWidth         int
	MaxHeight        int
	Padding          int
	MaxCombinations  int
	Scale            float64
	TrimTransparent  bool
	SourceOrder      bool
	Sources          []source.Image
}

// Signature computes the full layout signature: a deterministic hash of
// every field in in, plus the sorted multiset of (path, size, mtime)
// triples (spec §3).
func Signature(in SignatureInputs) string {
	return signature(in, true)
}

// SeedSignature computes the weaker seed signature: the same hash, but
// without padding (spec §3 "A seed signature is the same without
// padding.").
func SeedSignature(in SignatureInputs) string {
	return signature(in, false)
}

func signature(in SignatureInputs, includePadding bool) string {
	parts := make([]string, 0, len(in.Sources))
	for _, s := range in.Sources {
		parts = append(parts, fmt.Sprintf("%s|%d|%d", s.Path, s.Size, s.ModTimeTicks))
	}
	sort.Strings(parts)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%d|%d|%d",
		in.Profile, in.Mode, in.Objective, in.MaxWidth, in.MaxHeight)
	if includePadding {
		fmt.Fprintf(&b, "|%d", in.Padding)
	}
	fmt.Fprintf(&b, "|%d|%s|%s|%s",
		in.MaxCombinations,
		strconv.FormatFloat(in.Scale, 'g', 17, 64),
		boolFlag(in.TrimTransparent),
		boolFlag(in.SourceOrder))
	for _, p := range parts {
		b.WriteByte('\n')
		b.WriteString(p)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
