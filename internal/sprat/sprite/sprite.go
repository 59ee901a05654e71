// Package sprite holds the layout engine's core data model: the Sprite and
// AtlasLayout entities from spec §3, plus the checked arithmetic every
// kernel and the orchestrator route dimension math through.
package sprite

import (
	"math"

	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

// Sprite is one input image together with its placed rectangle.
//
// Width/Height are intrinsic (post-trim, post-scale) dimensions. X/Y are
// set by a packer; they are meaningless until a kernel or the orchestrator
// places the sprite.
type Sprite struct {
	Path string

	Width  int
	Height int

	TrimLeft   int
	TrimTop    int
	TrimRight  int
	TrimBottom int

	X int
	Y int
}

// Clone returns a value copy suitable for handing to a kernel that mutates
// its own working copy of the sprite list (spec §3 ownership: kernels own
// their working set, the source list is read-only).
func Clone(sprites []Sprite) []Sprite {
	out := make([]Sprite, len(sprites))
	copy(out, sprites)
	return out
}

// AtlasLayout is the result entity: atlas dimensions, scale, and the
// ordered placement.
type AtlasLayout struct {
	Width  int
	Height int
	Scale  float64
	Sprites []Sprite
}

// CheckedAddInt adds a and b, failing on 32-bit signed overflow the way
// spec §7 (ArithmeticOverflow) requires every kernel to.
func CheckedAddInt(a, b int) (int, bool) {
	sum := a + b
	if b > 0 && a > math.MaxInt32-b {
		return 0, false
	}
	if b < 0 && a < math.MinInt32-b {
		return 0, false
	}
	if sum > math.MaxInt32 || sum < math.MinInt32 {
		return 0, false
	}
	return sum, true
}

// CheckedMulSize multiplies two non-negative ints as areas, failing on
// overflow of the platform's int range.
func CheckedMulSize(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a < 0 || b < 0 {
		return 0, false
	}
	product := a * b
	if product/a != b {
		return 0, false
	}
	return product, true
}

// ScaleDimension scales input by scale and rounds to the nearest integer,
// matching original_source's scale_dimension: a non-positive input or
// scale is rejected, overflow of the 32-bit range is rejected, and a
// result that rounds down to zero is clamped up to 1 (a sprite never
// disappears purely from downscaling).
func ScaleDimension(input int, scale float64) (int, bool) {
	if input <= 0 || scale <= 0 {
		return 0, false
	}
	scaled := float64(input) * scale
	if scaled > math.MaxInt32 {
		return 0, false
	}
	rounded := int(math.Round(scaled))
	if rounded <= 0 {
		rounded = 1
	}
	return rounded, true
}

// PaddedFootprint returns (width+padding, height+padding), failing with an
// ArithmeticOverflow-kinded error naming the offending sprite when either
// addition overflows (spec §3 invariant).
func PaddedFootprint(s Sprite, padding int) (w, h int, err error) {
	w, ok := CheckedAddInt(s.Width, padding)
	if !ok {
		return 0, 0, spraterr.New(spraterr.ArithmeticOverflow, "sprite %q: width+padding overflows", s.Path)
	}
	h, ok = CheckedAddInt(s.Height, padding)
	if !ok {
		return 0, 0, spraterr.New(spraterr.ArithmeticOverflow, "sprite %q: height+padding overflows", s.Path)
	}
	return w, h, nil
}

// ValidateLayout checks the invariants of spec §8 items 1-2: every sprite
// inside bounds, no two padded rectangles overlapping.
func ValidateLayout(l AtlasLayout, padding int) bool {
	for _, s := range l.Sprites {
		if s.X < 0 || s.Y < 0 || s.X+s.Width > l.Width || s.Y+s.Height > l.Height {
			return false
		}
	}
	type rect struct{ x0, y0, x1, y1 int }
	rects := make([]rect, len(l.Sprites))
	for i, s := range l.Sprites {
		w, h, err := PaddedFootprint(s, padding)
		if err != nil {
			return false
		}
		rects[i] = rect{s.X, s.Y, s.X + w, s.Y + h}
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			if a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1 {
				return false
			}
		}
	}
	return true
}
