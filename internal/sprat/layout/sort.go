package layout

import (
	"sort"

	"github.com/pedroac/sprat/internal/sprat/sprite"
)

// SortOrder names one of the five descending sort orders spec §4.4 names
// for the compact search; POT uses the same five and FAST uses SortByHeight.
type SortOrder int

const (
	SortByArea SortOrder = iota
	SortByMaxSide
	SortByHeight
	SortByWidth
	SortByPerimeter
)

// CompactSortOrders is the five orders the compact search evaluates.
var CompactSortOrders = []SortOrder{SortByArea, SortByMaxSide, SortByHeight, SortByWidth, SortByPerimeter}

// GuidedSortOrders is the narrower set the compact width sweep uses in
// place of CompactSortOrders when a verified cached seed is available
// (original_source's guided_sort_indices: Height, Area, MaxSide). There is
// no separate seed sweep at a single width.
var GuidedSortOrders = []SortOrder{SortByHeight, SortByArea, SortByMaxSide}

// PotSortOrders is the full set POT tries at each candidate side/rectangle.
var PotSortOrders = CompactSortOrders

// Sorted returns a descending-sorted copy of sprites under the given
// order, with these tie-breaks: height then width, width then height, area
// then height then width, max side then area, perimeter then area. Sprites
// still tied keep their input order (the sort is stable).
func Sorted(sprites []sprite.Sprite, order SortOrder) []sprite.Sprite {
	out := sprite.Clone(sprites)
	switch order {
	case SortByHeight:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Height != out[j].Height {
				return out[i].Height > out[j].Height
			}
			return out[i].Width > out[j].Width
		})
	case SortByWidth:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Width != out[j].Width {
				return out[i].Width > out[j].Width
			}
			return out[i].Height > out[j].Height
		})
	case SortByArea:
		sort.SliceStable(out, func(i, j int) bool {
			ai := area(out[i])
			aj := area(out[j])
			if ai != aj {
				return ai > aj
			}
			if out[i].Height != out[j].Height {
				return out[i].Height > out[j].Height
			}
			return out[i].Width > out[j].Width
		})
	case SortByMaxSide:
		sort.SliceStable(out, func(i, j int) bool {
			mi := maxInt(out[i].Width, out[i].Height)
			mj := maxInt(out[j].Width, out[j].Height)
			if mi != mj {
				return mi > mj
			}
			return area(out[i]) > area(out[j])
		})
	case SortByPerimeter:
		sort.SliceStable(out, func(i, j int) bool {
			pi := out[i].Width + out[i].Height
			pj := out[j].Width + out[j].Height
			if pi != pj {
				return pi > pj
			}
			return area(out[i]) > area(out[j])
		})
	}
	return out
}

func area(s sprite.Sprite) int { return s.Width * s.Height }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
