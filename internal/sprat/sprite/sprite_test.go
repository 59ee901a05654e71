package sprite

import "testing"

func TestCheckedAddInt(t *testing.T) {
	cases := []struct {
		a, b   int
		wantOk bool
	}{
		{1, 2, true},
		{0, 0, true},
		{1<<31 - 2, 1, true},
		{1<<31 - 1, 1, false},
		{-(1 << 31), -1, false},
	}
	for _, c := range cases {
		_, ok := CheckedAddInt(c.a, c.b)
		if ok != c.wantOk {
			t.Errorf("CheckedAddInt(%d, %d) ok = %v, want %v", c.a, c.b, ok, c.wantOk)
		}
	}
}

func TestCheckedMulSize(t *testing.T) {
	if v, ok := CheckedMulSize(3, 4); !ok || v != 12 {
		t.Errorf("CheckedMulSize(3,4) = %d, %v, want 12, true", v, ok)
	}
	if _, ok := CheckedMulSize(-1, 4); ok {
		t.Error("CheckedMulSize with a negative operand should fail")
	}
	if v, ok := CheckedMulSize(0, 5); !ok || v != 0 {
		t.Errorf("CheckedMulSize(0,5) = %d, %v, want 0, true", v, ok)
	}
}

func TestPaddedFootprintOverflow(t *testing.T) {
	s := Sprite{Path: "big.png", Width: 1<<31 - 1, Height: 10}
	if _, _, err := PaddedFootprint(s, 5); err == nil {
		t.Error("expected overflow error for width+padding")
	}
}

func TestPaddedFootprintOK(t *testing.T) {
	s := Sprite{Path: "a.png", Width: 10, Height: 20}
	w, h, err := PaddedFootprint(s, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 12 || h != 22 {
		t.Errorf("got (%d,%d), want (12,22)", w, h)
	}
}

func TestValidateLayoutDetectsOverlap(t *testing.T) {
	layout := AtlasLayout{
		Width:  20,
		Height: 10,
		Sprites: []Sprite{
			{Path: "a", Width: 10, Height: 10, X: 0, Y: 0},
			{Path: "b", Width: 10, Height: 10, X: 5, Y: 0},
		},
	}
	if ValidateLayout(layout, 0) {
		t.Error("expected overlap to be detected")
	}
}

func TestValidateLayoutDetectsOutOfBounds(t *testing.T) {
	layout := AtlasLayout{
		Width:  10,
		Height: 10,
		Sprites: []Sprite{
			{Path: "a", Width: 10, Height: 10, X: 5, Y: 0},
		},
	}
	if ValidateLayout(layout, 0) {
		t.Error("expected out-of-bounds sprite to fail validation")
	}
}

func TestValidateLayoutAccepts(t *testing.T) {
	layout := AtlasLayout{
		Width:  20,
		Height: 10,
		Sprites: []Sprite{
			{Path: "a", Width: 10, Height: 10, X: 0, Y: 0},
			{Path: "b", Width: 10, Height: 10, X: 10, Y: 0},
		},
	}
	if !ValidateLayout(layout, 0) {
		t.Error("expected valid, non-overlapping layout to pass")
	}
}

func TestScaleDimension(t *testing.T) {
	if v, ok := ScaleDimension(100, 0.5); !ok || v != 50 {
		t.Errorf("ScaleDimension(100, 0.5) = %d, %v, want 50, true", v, ok)
	}
	if v, ok := ScaleDimension(1, 0.01); !ok || v != 1 {
		t.Errorf("ScaleDimension(1, 0.01) = %d, %v, want clamp to 1, true", v, ok)
	}
	if _, ok := ScaleDimension(0, 1.0); ok {
		t.Error("ScaleDimension with non-positive input should fail")
	}
	if _, ok := ScaleDimension(10, 0); ok {
		t.Error("ScaleDimension with non-positive scale should fail")
	}
}
