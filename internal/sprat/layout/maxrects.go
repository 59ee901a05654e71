package layout

import (
	"math"

	"github.com/pedroac/sprat/internal/sprat/sprite"
)

// RectHeuristic selects how MaxRects scores a candidate free rectangle for
// the sprite currently being placed (spec §4.3).
type RectHeuristic int

const (
	BestShortSideFit RectHeuristic = iota
	BestAreaFit
	BottomLeft
)

// CompactHeuristics is the full heuristic set the compact width sweep
// evaluates when no verified cached seed is available.
var CompactHeuristics = []RectHeuristic{BestShortSideFit, BestAreaFit, BottomLeft}

// GuidedHeuristics is the narrower pair the compact width sweep uses in
// place of CompactHeuristics when a verified cached seed is available, and
// the pair POT mode tries (original_source's guided_heuristics:
// BestShortSideFit, BestAreaFit).
var GuidedHeuristics = []RectHeuristic{BestShortSideFit, BestAreaFit}

type freeRect struct{ x, y, w, h int }

func rectsIntersect(a, b freeRect) bool {
	return !(a.x+a.w <= b.x || b.x+b.w <= a.x || a.y+a.h <= b.y || b.y+b.h <= a.y)
}

func rectContains(a, b freeRect) bool {
	return b.x >= a.x && b.y >= a.y && b.x+b.w <= a.x+a.w && b.y+b.h <= a.y+a.h
}

// splitFreeRect splits free against used, appending the up-to-four
// non-overlapping strips around used to out. If free does not overlap
// used at all, free itself is appended unchanged.
func splitFreeRect(free, used freeRect, out []freeRect) []freeRect {
	if !rectsIntersect(free, used) {
		return append(out, free)
	}

	freeRight := free.x + free.w
	freeBottom := free.y + free.h
	usedRight := used.x + used.w
	usedBottom := used.y + used.h

	if used.x > free.x {
		out = append(out, freeRect{free.x, free.y, used.x - free.x, free.h})
	}
	if usedRight < freeRight {
		out = append(out, freeRect{usedRight, free.y, freeRight - usedRight, free.h})
	}
	if used.y > free.y {
		x0 := maxInt(free.x, used.x)
		x1 := minInt(freeRight, usedRight)
		if x1 > x0 {
			out = append(out, freeRect{x0, free.y, x1 - x0, used.y - free.y})
		}
	}
	if usedBottom < freeBottom {
		x0 := maxInt(free.x, used.x)
		x1 := minInt(freeRight, usedRight)
		if x1 > x0 {
			out = append(out, freeRect{x0, usedBottom, x1 - x0, freeBottom - usedBottom})
		}
	}
	return out
}

// pruneFreeRects removes any free rectangle wholly contained in another.
func pruneFreeRects(rects []freeRect) []freeRect {
	i := 0
	for i < len(rects) {
		removedI := false
		j := i + 1
		for j < len(rects) {
			if rectContains(rects[i], rects[j]) {
				rects = append(rects[:j], rects[j+1:]...)
				continue
			}
			if rectContains(rects[j], rects[i]) {
				rects = append(rects[:i], rects[i+1:]...)
				removedI = true
				break
			}
			j++
		}
		if !removedI {
			i++
		}
	}
	return rects
}

// TryPackMaxRects places sprites (in their current order) into a
// widthLimit x maxHeight bin, choosing a free rectangle per sprite via
// heuristic. On success it mutates sprites' X/Y and returns the tight used
// width/height; on failure (any sprite has nowhere to go) it returns
// ok=false.
func TryPackMaxRects(sprites []sprite.Sprite, widthLimit, maxHeight, padding int, heuristic RectHeuristic) (usedW, usedH int, ok bool) {
	if widthLimit <= 0 || maxHeight <= 0 {
		return 0, 0, false
	}

	free := []freeRect{{0, 0, widthLimit, maxHeight}}

	for i := range sprites {
		rw, rh, err := sprite.PaddedFootprint(sprites[i], padding)
		if err != nil || rw <= 0 || rh <= 0 || rw > widthLimit || rh > maxHeight {
			return 0, 0, false
		}

		bestIndex := -1
		bestShort := math.MaxInt
		bestLong := math.MaxInt
		bestArea := math.MaxInt
		bestTop := math.MaxInt
		bestLeft := math.MaxInt

		for idx, fr := range free {
			if rw > fr.w || rh > fr.h {
				continue
			}
			leftoverW := fr.w - rw
			leftoverH := fr.h - rh
			shortFit := minInt(leftoverW, leftoverH)
			longFit := maxInt(leftoverW, leftoverH)
			areaFit := leftoverW * leftoverH

			better := false
			switch heuristic {
			case BestShortSideFit:
				better = shortFit < bestShort ||
					(shortFit == bestShort && longFit < bestLong) ||
					(shortFit == bestShort && longFit == bestLong && fr.y < bestTop) ||
					(shortFit == bestShort && longFit == bestLong && fr.y == bestTop && fr.x < bestLeft)
			case BestAreaFit:
				better = areaFit < bestArea ||
					(areaFit == bestArea && shortFit < bestShort) ||
					(areaFit == bestArea && shortFit == bestShort && fr.y < bestTop) ||
					(areaFit == bestArea && shortFit == bestShort && fr.y == bestTop && fr.x < bestLeft)
			default: // BottomLeft
				better = fr.y < bestTop ||
					(fr.y == bestTop && fr.x < bestLeft) ||
					(fr.y == bestTop && fr.x == bestLeft && shortFit < bestShort)
			}

			if better {
				bestIndex = idx
				bestShort = shortFit
				bestLong = longFit
				bestArea = areaFit
				bestTop = fr.y
				bestLeft = fr.x
			}
		}

		if bestIndex < 0 {
			return 0, 0, false
		}

		used := freeRect{free[bestIndex].x, free[bestIndex].y, rw, rh}
		sprites[i].X = used.x
		sprites[i].Y = used.y

		if used.x+used.w > usedW {
			usedW = used.x + used.w
		}
		if used.y+used.h > usedH {
			usedH = used.y + used.h
		}

		next := make([]freeRect, 0, len(free)*2)
		for _, fr := range free {
			next = splitFreeRect(fr, used, next)
		}
		kept := next[:0]
		for _, r := range next {
			if r.w > 0 && r.h > 0 {
				kept = append(kept, r)
			}
		}
		free = pruneFreeRects(kept)
	}

	return usedW, usedH, usedW > 0 && usedH > 0
}
