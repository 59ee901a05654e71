package layout

import "testing"

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"compact": ModeCompact, "pot": ModePOT, "fast": ModeFast}
	for s, want := range cases {
		got, ok := ParseMode(s)
		if !ok || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}
	if _, ok := ParseMode("bogus"); ok {
		t.Error("ParseMode should reject unknown values")
	}
}

func TestModeString(t *testing.T) {
	if ModeCompact.String() != "compact" || ModePOT.String() != "pot" || ModeFast.String() != "fast" {
		t.Error("Mode.String() round trip mismatch")
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct {
		in, want int
		ok       bool
	}{
		{0, 1, true},
		{1, 1, true},
		{2, 2, true},
		{3, 4, true},
		{5, 8, true},
		{1024, 1024, true},
		{1025, 2048, true},
	}
	for _, c := range cases {
		got, ok := NextPowerOfTwo(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNextPowerOfTwoOverflow(t *testing.T) {
	if _, ok := NextPowerOfTwo(1 << 31); ok {
		t.Error("expected overflow to be reported for an input beyond the 32-bit range")
	}
}
