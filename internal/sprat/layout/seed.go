package layout

import (
	"sort"

	"github.com/pedroac/sprat/internal/sprat/sprite"
)

// VerifySeed reports whether seed can be trusted as a hot-start hint for
// sprites under padding — the exact check order from original_source's
// try_apply_layout_seed (spec §4.4 "Seed reuse"): entry count, per-path
// uniqueness, dimension/trim match, in-bounds after padding, and an
// x-sorted sweep for padded-rectangle overlap.
func VerifySeed(seed sprite.AtlasLayout, sprites []sprite.Sprite, padding int) bool {
	if len(seed.Sprites) != len(sprites) {
		return false
	}

	byPath := make(map[string]sprite.Sprite, len(sprites))
	for _, s := range sprites {
		if _, dup := byPath[s.Path]; dup {
			return false
		}
		byPath[s.Path] = s
	}

	type rect struct{ x0, y0, x1, y1 int }
	rects := make([]rect, 0, len(seed.Sprites))

	for _, ss := range seed.Sprites {
		want, ok := byPath[ss.Path]
		if !ok {
			return false
		}
		if ss.Width != want.Width || ss.Height != want.Height ||
			ss.TrimLeft != want.TrimLeft || ss.TrimTop != want.TrimTop ||
			ss.TrimRight != want.TrimRight || ss.TrimBottom != want.TrimBottom {
			return false
		}
		w, h, err := sprite.PaddedFootprint(ss, padding)
		if err != nil {
			return false
		}
		if ss.X < 0 || ss.Y < 0 || ss.X+w > seed.Width || ss.Y+h > seed.Height {
			return false
		}
		rects = append(rects, rect{ss.X, ss.Y, ss.X + w, ss.Y + h})
	}

	sort.Slice(rects, func(i, j int) bool { return rects[i].x0 < rects[j].x0 })
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[j].x0 >= rects[i].x1 {
				break
			}
			if rects[i].y0 < rects[j].y1 && rects[j].y0 < rects[i].y1 {
				return false
			}
		}
	}

	return true
}
