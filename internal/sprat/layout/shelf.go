package layout

import "github.com/pedroac/sprat/internal/sprat/sprite"

// TryPackShelf walks sprites left-to-right, closing a shelf (row) and
// starting a new one immediately below whenever the next sprite would
// exceed maxRowWidth (spec §4.3 Shelf). It never backtracks.
func TryPackShelf(sprites []sprite.Sprite, maxRowWidth, padding int) (atlasW, atlasH int, ok bool) {
	if maxRowWidth <= 0 {
		return 0, 0, false
	}

	x, y, rowHeight, atlasWidth := 0, 0, 0, 0

	for i := range sprites {
		w, h, err := sprite.PaddedFootprint(sprites[i], padding)
		if err != nil || w <= 0 || h <= 0 || w > maxRowWidth {
			return 0, 0, false
		}

		candidateX, ok1 := sprite.CheckedAddInt(x, w)
		if !ok1 {
			return 0, 0, false
		}

		if x > 0 && candidateX > maxRowWidth {
			nextY, ok2 := sprite.CheckedAddInt(y, rowHeight)
			if !ok2 {
				return 0, 0, false
			}
			y = nextY
			x = 0
			rowHeight = 0
			candidateX, ok1 = sprite.CheckedAddInt(x, w)
			if !ok1 {
				return 0, 0, false
			}
		}

		sprites[i].X = x
		sprites[i].Y = y
		x = candidateX
		if h > rowHeight {
			rowHeight = h
		}
		if x > atlasWidth {
			atlasWidth = x
		}
	}

	totalHeight, ok3 := sprite.CheckedAddInt(y, rowHeight)
	if !ok3 {
		return 0, 0, false
	}
	return atlasWidth, totalHeight, atlasWidth > 0 && totalHeight > 0
}
