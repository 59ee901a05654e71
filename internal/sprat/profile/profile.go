// Package profile resolves a named profile plus CLI overrides into a
// concrete packing strategy (spec §4.1).
package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/pedroac/sprat/internal/sprat/layout"
	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

// ResolutionReference picks which axis scale wins when both width and
// height scale factors disagree (spec §4.1).
type ResolutionReference int

const (
	ReferenceLargest ResolutionReference = iota
	ReferenceSmallest
)

// Definition is one named profile's preset values, each optional so that
// "not set in this profile" is distinguishable from "set to zero".
type Definition struct {
	Name string

	Mode      layout.Mode
	Objective layout.Objective

	MaxWidth        *int
	MaxHeight       *int
	Padding         *int
	MaxCombinations *int
	Scale           *float64
	TrimTransparent *bool
	Threads         *int

	SourceResolution   *[2]int
	TargetResolution   *[2]int // [-1,-1] means "source" (same as source resolution)
	ResolutionReference *ResolutionReference
}

// Resolved is the concrete strategy a resolution run-through produces: the
// built-in defaults overlaid by the matched profile, overlaid by explicit
// CLI flags.
type Resolved struct {
	ProfileName string

	Mode      layout.Mode
	Objective layout.Objective

	MaxWidth        int
	MaxHeight       int
	Padding         int
	MaxCombinations int
	Scale           float64
	TrimTransparent bool
	Threads         int
}

// builtinFallback is the strategy used when no profile is named at all
// (spec §4.1: "The built-in fallback when no profile is named is
// mode=fast, objective=gpu, padding=0, scale=1.0, trim=false.").
func builtinFallback() Resolved {
	return Resolved{
		ProfileName:     "",
		Mode:            layout.ModeFast,
		Objective:       layout.ObjectiveGPU,
		MaxWidth:        0,
		MaxHeight:       0,
		Padding:         0,
		MaxCombinations: 0,
		Scale:           1.0,
		TrimTransparent: false,
		Threads:         0,
	}
}

// configCache memoizes parsed profile config files within one process, so
// that a caller resolving many profiles in a loop against the same
// --profiles-config path doesn't re-read and re-parse it each time — a
// refinement this spec's single-shot CLI rarely needs on its own, but
// which keeps repeated calls from library callers of this package cheap.
var configCache, _ = lru.New(8)

// configCacheKey fingerprints a config file by path + mtime + size so a
// concurrent edit invalidates the memoized parse.
type configCacheKey struct {
	path  string
	size  int64
	mtime int64
}

// Overrides carries the CLI flags that, when set, take precedence over
// both the profile and the built-in fallback one-for-one (spec §4.1).
type Overrides struct {
	ProfilesConfigPath string
	ProfileName        string

	Mode      *layout.Mode
	Objective *layout.Objective

	MaxWidth        *int
	MaxHeight       *int
	Padding         *int
	MaxCombinations *int
	Scale           *float64
	TrimTransparent *bool
	Threads         *int

	SourceResolution    *[2]int
	TargetResolution    *[2]int
	ResolutionReference *ResolutionReference
}

// Resolve implements spec §4.1 end to end: locate and parse the config
// file (unless no profile was named and none is needed), overlay the
// matched profile's values atop the built-in fallback, then overlay CLI
// overrides, then apply resolution rescaling.
func Resolve(ov Overrides) (Resolved, error) {
	out := builtinFallback()

	var def Definition
	if ov.ProfileName != "" {
		var err error
		def, err = findProfile(ov)
		if err != nil {
			return Resolved{}, err
		}
		applyDefinition(&out, def)
		out.ProfileName = def.Name
	}

	applyOverrides(&out, ov)

	if err := applyResolutionRescale(&out, ov, def); err != nil {
		return Resolved{}, err
	}

	return out, nil
}

func applyDefinition(out *Resolved, def Definition) {
	out.Mode = def.Mode
	out.Objective = def.Objective
	if def.MaxWidth != nil {
		out.MaxWidth = *def.MaxWidth
	}
	if def.MaxHeight != nil {
		out.MaxHeight = *def.MaxHeight
	}
	if def.Padding != nil {
		out.Padding = *def.Padding
	}
	if def.MaxCombinations != nil {
		out.MaxCombinations = *def.MaxCombinations
	}
	if def.Scale != nil {
		out.Scale = *def.Scale
	}
	if def.TrimTransparent != nil {
		out.TrimTransparent = *def.TrimTransparent
	}
	if def.Threads != nil {
		out.Threads = *def.Threads
	}
}

func applyOverrides(out *Resolved, ov Overrides) {
	if ov.Mode != nil {
		out.Mode = *ov.Mode
	}
	if ov.Objective != nil {
		out.Objective = *ov.Objective
	}
	if ov.MaxWidth != nil {
		out.MaxWidth = *ov.MaxWidth
	}
	if ov.MaxHeight != nil {
		out.MaxHeight = *ov.MaxHeight
	}
	if ov.Padding != nil {
		out.Padding = *ov.Padding
	}
	if ov.MaxCombinations != nil {
		out.MaxCombinations = *ov.MaxCombinations
	}
	if ov.Scale != nil {
		out.Scale = *ov.Scale
	}
	if ov.TrimTransparent != nil {
		out.TrimTransparent = *ov.TrimTransparent
	}
	if ov.Threads != nil {
		out.Threads = *ov.Threads
	}
}

// applyResolutionRescale multiplies out.Scale by the source/target
// resolution ratio, per Open Question 1's adopted resolution: the
// resolution-derived factor is MULTIPLIED with whatever scale was already
// resolved (profile or --scale), not overridden by it. A profile's
// source_resolution/target_resolution/resolution_reference keys set the
// default the same way every other field does; a CLI override still wins.
func applyResolutionRescale(out *Resolved, ov Overrides, def Definition) error {
	source := ov.SourceResolution
	if source == nil {
		source = def.SourceResolution
	}
	target := ov.TargetResolution
	if target == nil {
		target = def.TargetResolution
	}
	ref := ReferenceLargest
	if def.ResolutionReference != nil {
		ref = *def.ResolutionReference
	}
	if ov.ResolutionReference != nil {
		ref = *ov.ResolutionReference
	}

	if source == nil && target == nil {
		return nil
	}
	if source == nil || target == nil {
		return spraterr.New(spraterr.InvalidConfig, "--source-resolution and --target-resolution must be provided together")
	}

	sw, sh := float64(source[0]), float64(source[1])
	tw, th := float64(target[0]), float64(target[1])
	if target[0] == -1 && target[1] == -1 {
		tw, th = sw, sh
	}
	if sw <= 0 || sh <= 0 || tw <= 0 || th <= 0 {
		return spraterr.New(spraterr.InvalidConfig, "resolution values must be positive")
	}

	sx := tw / sw
	sy := th / sh
	var resolutionScale float64
	if ref == ReferenceLargest {
		resolutionScale = maxF(sx, sy)
	} else {
		resolutionScale = minF(sx, sy)
	}
	out.Scale *= resolutionScale
	return nil
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// findProfile resolves the config search order from spec §4.1: explicit
// --profiles-config, then $HOME/.config/sprat/spratprofiles.cfg, then
// executable-adjacent spratprofiles.cfg, then the compiled-in global path.
func findProfile(ov Overrides) (Definition, error) {
	candidates, err := candidatePaths(ov.ProfilesConfigPath)
	if err != nil {
		return Definition{}, err
	}

	var lastErr error
	for _, path := range candidates {
		defs, err := loadConfig(path)
		if err != nil {
			lastErr = err
			continue
		}
		for _, d := range defs {
			if d.Name == ov.ProfileName {
				return d, nil
			}
		}
	}
	if lastErr != nil {
		return Definition{}, lastErr
	}
	return Definition{}, spraterr.New(spraterr.InvalidConfig, "profile %q not found in any profiles config", ov.ProfileName)
}

func candidatePaths(explicit string) ([]string, error) {
	var out []string
	if explicit != "" {
		out = append(out, explicit)
		return out, nil
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		out = append(out, filepath.Join(home, ".config", "sprat", "spratprofiles.cfg"))
	}
	if exe, err := os.Executable(); err == nil {
		out = append(out, filepath.Join(filepath.Dir(exe), "spratprofiles.cfg"))
	}
	out = append(out, GlobalConfigPath)
	return out, nil
}

// GlobalConfigPath is the compiled-in fallback location for the profiles
// config (spec §4.1). Mirrors the teacher's convention of a single
// constant for a compiled-in resource path.
const GlobalConfigPath = "/usr/local/share/sprat/spratprofiles.cfg"

func loadConfig(path string) ([]Definition, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, spraterr.New(spraterr.InvalidConfig, "profiles config %q: %v", path, err)
	}
	key := configCacheKey{path: path, size: fi.Size(), mtime: fi.ModTime().UnixNano()}
	if cached, ok := configCache.Get(key); ok {
		return cached.([]Definition), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, spraterr.New(spraterr.InvalidConfig, "profiles config %q: %v", path, err)
	}
	defer f.Close()

	defs, err := parseConfig(f)
	if err != nil {
		return nil, err
	}
	configCache.Add(key, defs)
	return defs, nil
}

// parseConfig implements the ini-like grammar from original_source's
// parse_profiles_config: "#"/";" comments, [profile NAME] headers with
// exactly one token, duplicate names rejected, unknown keys and malformed
// values are both InvalidConfig errors.
func parseConfig(r io.Reader) ([]Definition, error) {
	var out []Definition
	seen := map[string]bool{}
	var current *Definition

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if current != nil {
				out = append(out, *current)
			}
			header := strings.TrimSpace(line[1 : len(line)-1])
			fields := strings.Fields(header)
			if len(fields) == 0 {
				return nil, spraterr.New(spraterr.InvalidConfig, "empty section header at line %d", lineNo)
			}
			if strings.ToLower(fields[0]) != "profile" {
				return nil, spraterr.New(spraterr.InvalidConfig, "unsupported section %q at line %d", fields[0], lineNo)
			}
			if len(fields) < 2 {
				return nil, spraterr.New(spraterr.InvalidConfig, "missing profile name at line %d", lineNo)
			}
			if len(fields) > 2 {
				return nil, spraterr.New(spraterr.InvalidConfig, "unexpected token %q in profile header at line %d", fields[2], lineNo)
			}
			name := fields[1]
			if seen[name] {
				return nil, spraterr.New(spraterr.InvalidConfig, "duplicate profile %q at line %d", name, lineNo)
			}
			seen[name] = true
			current = &Definition{Name: name, Mode: layout.ModeCompact, Objective: layout.ObjectiveGPU}
			continue
		}

		if current == nil {
			return nil, spraterr.New(spraterr.InvalidConfig, "entry outside of profile section at line %d", lineNo)
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, spraterr.New(spraterr.InvalidConfig, "invalid line %q at line %d", line, lineNo)
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" {
			return nil, spraterr.New(spraterr.InvalidConfig, "empty key at line %d", lineNo)
		}
		if value == "" {
			return nil, spraterr.New(spraterr.InvalidConfig, "empty value for key %q at line %d", key, lineNo)
		}

		if err := applyConfigKey(current, strings.ToLower(key), value, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, spraterr.New(spraterr.InvalidConfig, "reading config: %v", err)
	}
	if current != nil {
		out = append(out, *current)
	}
	if len(out) == 0 {
		return nil, spraterr.New(spraterr.InvalidConfig, "no profiles defined")
	}
	return out, nil
}

func applyConfigKey(cur *Definition, key, value string, lineNo int) error {
	switch key {
	case "mode":
		m, ok := layout.ParseMode(value)
		if !ok {
			return spraterr.New(spraterr.InvalidConfig, "invalid mode %q at line %d", value, lineNo)
		}
		cur.Mode = m
	case "optimize":
		o, ok := layout.ParseObjective(value)
		if !ok {
			return spraterr.New(spraterr.InvalidConfig, "invalid optimize %q at line %d", value, lineNo)
		}
		cur.Objective = o
	case "max_width", "default_max_width":
		v, err := parsePositiveInt(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid max_width %q at line %d", value, lineNo)
		}
		cur.MaxWidth = &v
	case "max_height", "default_max_height":
		v, err := parsePositiveInt(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid max_height %q at line %d", value, lineNo)
		}
		cur.MaxHeight = &v
	case "padding":
		v, err := parseNonNegativeInt(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid padding %q at line %d", value, lineNo)
		}
		cur.Padding = &v
	case "max_combinations":
		v, err := parseNonNegativeInt(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid max_combinations %q at line %d", value, lineNo)
		}
		cur.MaxCombinations = &v
	case "scale":
		v, err := parseScaleFactor(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid scale %q at line %d", value, lineNo)
		}
		cur.Scale = &v
	case "trim_transparent":
		v, err := parseBoolValue(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid trim_transparent %q at line %d", value, lineNo)
		}
		cur.TrimTransparent = &v
	case "threads":
		v, err := parsePositiveInt(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid threads %q at line %d", value, lineNo)
		}
		cur.Threads = &v
	case "source_resolution":
		w, h, err := parseResolution(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid source_resolution %q at line %d", value, lineNo)
		}
		res := [2]int{w, h}
		cur.SourceResolution = &res
	case "target_resolution":
		if strings.ToLower(value) == "source" {
			res := [2]int{-1, -1}
			cur.TargetResolution = &res
			return nil
		}
		w, h, err := parseResolution(value)
		if err != nil {
			return spraterr.New(spraterr.InvalidConfig, "invalid target_resolution %q at line %d", value, lineNo)
		}
		res := [2]int{w, h}
		cur.TargetResolution = &res
	case "resolution_reference":
		switch strings.ToLower(value) {
		case "largest":
			ref := ReferenceLargest
			cur.ResolutionReference = &ref
		case "smallest":
			ref := ReferenceSmallest
			cur.ResolutionReference = &ref
		default:
			return spraterr.New(spraterr.InvalidConfig, "invalid resolution_reference %q at line %d", value, lineNo)
		}
	default:
		return spraterr.New(spraterr.InvalidConfig, "unknown key %q at line %d", key, lineNo)
	}
	return nil
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("not a positive int: %q", s)
	}
	return v, nil
}

func parseNonNegativeInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("not a non-negative int: %q", s)
	}
	return v, nil
}

func parseScaleFactor(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v > 1.0 {
		return 0, fmt.Errorf("not a valid scale: %q", s)
	}
	return v, nil
}

func parseBoolValue(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a valid bool: %q", s)
	}
}

func parseResolution(s string) (int, int, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("empty resolution")
	}
	sep := strings.IndexByte(s, 'x')
	if sep <= 0 || sep+1 >= len(s) {
		return 0, 0, fmt.Errorf("invalid resolution %q", s)
	}
	if strings.IndexByte(s[sep+1:], 'x') >= 0 {
		return 0, 0, fmt.Errorf("invalid resolution %q", s)
	}
	w, err := parsePositiveInt(s[:sep])
	if err != nil {
		return 0, 0, err
	}
	h, err := parsePositiveInt(s[sep+1:])
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
