package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pedroac/sprat/internal/sprat/layout"
)

func TestParseConfigBasic(t *testing.T) {
	src := `
# a comment
[profile fast-gpu]
mode = fast
optimize = gpu
max_width = 1024
padding = 2
scale = 0.5
trim_transparent = yes
`
	defs, err := parseConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("got %d profiles, want 1", len(defs))
	}
	d := defs[0]
	if d.Name != "fast-gpu" || d.Mode != layout.ModeFast || d.Objective != layout.ObjectiveGPU {
		t.Errorf("unexpected profile: %+v", d)
	}
	if d.MaxWidth == nil || *d.MaxWidth != 1024 {
		t.Error("MaxWidth not parsed")
	}
	if d.Padding == nil || *d.Padding != 2 {
		t.Error("Padding not parsed")
	}
	if d.Scale == nil || *d.Scale != 0.5 {
		t.Error("Scale not parsed")
	}
	if d.TrimTransparent == nil || *d.TrimTransparent != true {
		t.Error("TrimTransparent not parsed")
	}
}

func TestParseConfigMultipleProfiles(t *testing.T) {
	src := `
[profile a]
mode = fast
[profile b]
mode = compact
`
	defs, err := parseConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 || defs[0].Name != "a" || defs[1].Name != "b" {
		t.Errorf("got %+v", defs)
	}
}

func TestParseConfigRejectsDuplicateName(t *testing.T) {
	src := `
[profile a]
mode = fast
[profile a]
mode = compact
`
	if _, err := parseConfig(strings.NewReader(src)); err == nil {
		t.Error("expected duplicate profile name to be rejected")
	}
}

func TestParseConfigRejectsUnknownKey(t *testing.T) {
	src := `
[profile a]
bogus_key = 1
`
	if _, err := parseConfig(strings.NewReader(src)); err == nil {
		t.Error("expected unknown config key to be rejected")
	}
}

func TestParseConfigRejectsEntryOutsideSection(t *testing.T) {
	src := `mode = fast`
	if _, err := parseConfig(strings.NewReader(src)); err == nil {
		t.Error("expected an entry before any [profile] header to be rejected")
	}
}

func TestParseConfigRejectsMissingProfileName(t *testing.T) {
	src := `[profile]
mode = fast
`
	if _, err := parseConfig(strings.NewReader(src)); err == nil {
		t.Error("expected a header with no profile name to be rejected")
	}
}

func TestParseConfigRejectsNoProfiles(t *testing.T) {
	src := "# just a comment\n"
	if _, err := parseConfig(strings.NewReader(src)); err == nil {
		t.Error("expected a config with no profile sections to be rejected")
	}
}

func TestParsePositiveInt(t *testing.T) {
	if _, err := parsePositiveInt("0"); err == nil {
		t.Error("0 should not be a positive int")
	}
	if _, err := parsePositiveInt("-5"); err == nil {
		t.Error("-5 should not be a positive int")
	}
	if v, err := parsePositiveInt("42"); err != nil || v != 42 {
		t.Errorf("parsePositiveInt(42) = %d, %v", v, err)
	}
}

func TestParseScaleFactor(t *testing.T) {
	if _, err := parseScaleFactor("0"); err == nil {
		t.Error("0 should be rejected")
	}
	if _, err := parseScaleFactor("1.5"); err == nil {
		t.Error("values above 1.0 should be rejected")
	}
	if v, err := parseScaleFactor("1.0"); err != nil || v != 1.0 {
		t.Errorf("parseScaleFactor(1.0) = %v, %v", v, err)
	}
	if v, err := parseScaleFactor("0.25"); err != nil || v != 0.25 {
		t.Errorf("parseScaleFactor(0.25) = %v, %v", v, err)
	}
}

func TestParseBoolValue(t *testing.T) {
	truthy := []string{"1", "true", "yes", "on", "TRUE"}
	falsy := []string{"0", "false", "no", "off"}
	for _, s := range truthy {
		if v, err := parseBoolValue(s); err != nil || !v {
			t.Errorf("parseBoolValue(%q) = %v, %v; want true", s, v, err)
		}
	}
	for _, s := range falsy {
		if v, err := parseBoolValue(s); err != nil || v {
			t.Errorf("parseBoolValue(%q) = %v, %v; want false", s, v, err)
		}
	}
	if _, err := parseBoolValue("maybe"); err == nil {
		t.Error("expected an unrecognized bool token to error")
	}
}

func TestParseResolution(t *testing.T) {
	w, h, err := parseResolution("1920x1080")
	if err != nil || w != 1920 || h != 1080 {
		t.Errorf("parseResolution(1920x1080) = %d,%d,%v", w, h, err)
	}
	if _, _, err := parseResolution("1920x1080x60"); err == nil {
		t.Error("expected a second 'x' to be rejected")
	}
	if _, _, err := parseResolution("x1080"); err == nil {
		t.Error("expected a missing width to be rejected")
	}
	if _, _, err := parseResolution("garbage"); err == nil {
		t.Error("expected a resolution with no 'x' separator to be rejected")
	}
}

func TestResolveBuiltinFallback(t *testing.T) {
	r, err := Resolve(Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode != layout.ModeFast || r.Objective != layout.ObjectiveGPU {
		t.Errorf("fallback mode/objective = %v/%v, want fast/gpu", r.Mode, r.Objective)
	}
	if r.Padding != 0 || r.Scale != 1.0 || r.TrimTransparent {
		t.Errorf("unexpected fallback strategy: %+v", r)
	}
}

func TestResolveAppliesCLIOverrides(t *testing.T) {
	mode := layout.ModeCompact
	padding := 4
	r, err := Resolve(Overrides{Mode: &mode, Padding: &padding})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode != layout.ModeCompact || r.Padding != 4 {
		t.Errorf("overrides not applied: %+v", r)
	}
}

func TestResolveRescalesByResolutionRatio(t *testing.T) {
	source := [2]int{1000, 1000}
	target := [2]int{2000, 1000}
	ov := Overrides{SourceResolution: &source, TargetResolution: &target}
	r, err := Resolve(ov)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ReferenceLargest (default): max(2.0, 1.0) = 2.0
	if r.Scale != 2.0 {
		t.Errorf("got scale %v, want 2.0", r.Scale)
	}
}

func TestResolveRescaleSmallestReference(t *testing.T) {
	source := [2]int{1000, 1000}
	target := [2]int{2000, 1000}
	ref := ReferenceSmallest
	ov := Overrides{SourceResolution: &source, TargetResolution: &target, ResolutionReference: &ref}
	r, err := Resolve(ov)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Scale != 1.0 {
		t.Errorf("got scale %v, want 1.0", r.Scale)
	}
}

func TestResolveRequiresResolutionPairing(t *testing.T) {
	source := [2]int{1000, 1000}
	if _, err := Resolve(Overrides{SourceResolution: &source}); err == nil {
		t.Error("expected an error when only source resolution is given")
	}
}

func writeProfilesConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spratprofiles.cfg")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveAppliesProfileResolutionRescale(t *testing.T) {
	path := writeProfilesConfig(t, `
[profile hd]
mode = fast
source_resolution = 1000x1000
target_resolution = 2000x1000
`)
	r, err := Resolve(Overrides{ProfilesConfigPath: path, ProfileName: "hd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A profile-only resolution rescale must apply even with no CLI
	// --source-resolution/--target-resolution flags given.
	if r.Scale != 2.0 {
		t.Errorf("got scale %v, want 2.0 from the profile's resolution pair", r.Scale)
	}
}

func TestResolveCLIResolutionOverridesProfile(t *testing.T) {
	path := writeProfilesConfig(t, `
[profile hd]
mode = fast
source_resolution = 1000x1000
target_resolution = 2000x1000
`)
	source := [2]int{1000, 1000}
	target := [2]int{1000, 1000}
	r, err := Resolve(Overrides{
		ProfilesConfigPath: path, ProfileName: "hd",
		SourceResolution: &source, TargetResolution: &target,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Scale != 1.0 {
		t.Errorf("got scale %v, want 1.0; CLI resolution flags should win over the profile's", r.Scale)
	}
}

func TestResolveProfileResolutionReferenceApplies(t *testing.T) {
	path := writeProfilesConfig(t, `
[profile hd]
mode = fast
source_resolution = 1000x1000
target_resolution = 2000x1000
resolution_reference = smallest
`)
	r, err := Resolve(Overrides{ProfilesConfigPath: path, ProfileName: "hd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Scale != 1.0 {
		t.Errorf("got scale %v, want 1.0 under the profile's smallest reference", r.Scale)
	}
}
