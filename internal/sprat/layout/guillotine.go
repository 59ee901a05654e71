package layout

import "github.com/pedroac/sprat/internal/sprat/sprite"

// node is a guillotine tree cell. Grounded on original_source/src/spratlayout.cpp's
// Node/insert: a node owns its right/down children outright and is
// discarded with the kernel invocation that builds it (spec §3, §9).
type node struct {
	x, y, w, h int
	used       bool
	right      *node
	down       *node
}

func insert(n *node, w, h int) *node {
	if n.used {
		if n.right != nil {
			if r := insert(n.right, w, h); r != nil {
				return r
			}
		}
		if n.down != nil {
			return insert(n.down, w, h)
		}
		return nil
	}
	if w > n.w || h > n.h {
		return nil
	}
	if w == n.w && h == n.h {
		n.used = true
		return n
	}
	n.used = true
	n.down = &node{x: n.x, y: n.y + h, w: n.w, h: n.h - h}
	n.right = &node{x: n.x + w, y: n.y, w: n.w - w, h: h}
	return n
}

// TryPackGuillotine attempts to place every sprite (in its current order)
// into a side x side (or w x h) root rectangle using the guillotine tree.
// It mutates sprites' X/Y in place and returns false (without a partial
// placement guarantee) if any sprite does not fit.
func TryPackGuillotine(sprites []sprite.Sprite, width, height, padding int) bool {
	root := &node{x: 0, y: 0, w: width, h: height}
	for i := range sprites {
		w, h, err := sprite.PaddedFootprint(sprites[i], padding)
		if err != nil {
			return false
		}
		n := insert(root, w, h)
		if n == nil {
			return false
		}
		sprites[i].X = n.x
		sprites[i].Y = n.y
	}
	return true
}
