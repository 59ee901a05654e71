// Package imgmeta measures an input image: its intrinsic dimensions and,
// when trimming is requested, the non-transparent bounding box (spec §4.2).
package imgmeta

import (
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

// Meta is the measurement result: intrinsic size, and — when trim was
// requested — the opaque bounding box expressed as offsets from each edge.
type Meta struct {
	Width  int
	Height int

	TrimLeft   int
	TrimTop    int
	TrimRight  int
	TrimBottom int
}

// Read decodes path and measures it. When trim is false only the
// dimensions are populated (trim offsets stay zero). Unreadable or
// undecodable files produce an ImageDecode-kinded error; callers in
// directory/tar mode skip these, callers in list-file mode treat them as
// fatal (spec §4.2, §7).
func Read(path string, trim bool) (Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, spraterr.New(spraterr.ImageDecode, "opening %q: %v", path, err)
	}
	defer f.Close()

	if !trim {
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return Meta{}, spraterr.New(spraterr.ImageDecode, "decoding %q: %v", path, err)
		}
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return Meta{}, spraterr.New(spraterr.ImageDecode, "%q has non-positive dimensions", path)
		}
		return Meta{Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return Meta{}, spraterr.New(spraterr.ImageDecode, "decoding %q: %v", path, err)
	}
	return trimImage(img), nil
}

// trimImage scans the alpha channel the way spec §4.2 requires: find the
// first opaque row from the top, then from the bottom, then narrow the
// left/right bounds only inside that vertical stripe.
func trimImage(img image.Image) Meta {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		conv := image.NewNRGBA(b)
		draw.Draw(conv, b, img, b.Min, draw.Src)
		nrgba = conv
	}

	opaqueAt := func(x, y int) bool {
		_, _, _, a := nrgba.At(x, y).RGBA()
		return a != 0
	}

	top := -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		rowHasOpaque := false
		for x := b.Min.X; x < b.Max.X; x++ {
			if opaqueAt(x, y) {
				rowHasOpaque = true
				break
			}
		}
		if rowHasOpaque {
			top = y
			break
		}
	}
	if top < 0 {
		// Fully transparent: degrade to a 1x1 placed rectangle that
		// reconstructs the original size via trim offsets.
		return Meta{
			Width:      1,
			Height:     1,
			TrimLeft:   0,
			TrimTop:    0,
			TrimRight:  maxInt(0, w-1),
			TrimBottom: maxInt(0, h-1),
		}
	}

	bottom := top
	for y := b.Max.Y - 1; y >= top; y-- {
		rowHasOpaque := false
		for x := b.Min.X; x < b.Max.X; x++ {
			if opaqueAt(x, y) {
				rowHasOpaque = true
				break
			}
		}
		if rowHasOpaque {
			bottom = y
			break
		}
	}

	left := b.Max.X - 1
	right := b.Min.X
	for y := top; y <= bottom; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !opaqueAt(x, y) {
				continue
			}
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
		}
	}

	return Meta{
		Width:      right - left + 1,
		Height:     bottom - top + 1,
		TrimLeft:   left - b.Min.X,
		TrimTop:    top - b.Min.Y,
		TrimRight:  (b.Max.X - 1) - right,
		TrimBottom: (b.Max.Y - 1) - bottom,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
