// Package encode renders a computed atlas layout as the text data contract
// spec §4.7/§6 defines, the only channel this engine shares with the
// out-of-scope rendering/unpacking/conversion tools downstream.
package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pedroac/sprat/internal/sprat/sprite"
)

// Layout renders atlas, scale, and every sprite line exactly as
// original_source's build_layout_output_text does: an "atlas W,H" line, a
// "scale S" line with eight digits after the decimal point, then one "sprite ..." line per
// entry in l.Sprites order, trim offsets appended only when
// trimTransparent is set, and '"' characters in a path backslash-escaped.
func Layout(l sprite.AtlasLayout, trimTransparent bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "atlas %d,%d\n", l.Width, l.Height)
	fmt.Fprintf(&b, "scale %s\n", strconv.FormatFloat(l.Scale, 'f', 8, 64))

	for _, s := range l.Sprites {
		fmt.Fprintf(&b, "sprite %q %d,%d %d,%d",
			s.Path, s.X, s.Y, s.Width, s.Height)
		if trimTransparent {
			fmt.Fprintf(&b, " %d,%d %d,%d", s.TrimLeft, s.TrimTop, s.TrimRight, s.TrimBottom)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
