package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pedroac/sprat/internal/sprat/sprite"
)

// Seed is the decoded form of a "*.cache.seed.<signature>" file: the
// padding it was computed under, the resulting atlas bounds, and every
// placed sprite (spec §4.6).
type Seed struct {
	Padding int
	Layout  sprite.AtlasLayout
}

const seedCacheHeader = "spratlayout_seed_cache"
const seedCacheVersion = 2

// EncodeSeed renders a Seed in original_source's save_layout_seed_cache
// format: header, signature, "padding width height count", then one
// quoted-path line per sprite.
func EncodeSeed(signature string, padding int, l sprite.AtlasLayout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", seedCacheHeader, seedCacheVersion)
	fmt.Fprintf(&b, "%s\n", signature)
	fmt.Fprintf(&b, "%d %d %d %d\n", padding, l.Width, l.Height, len(l.Sprites))
	for _, s := range l.Sprites {
		fmt.Fprintf(&b, "%s %d %d %d %d %d %d %d %d\n",
			strconv.Quote(s.Path), s.X, s.Y, s.Width, s.Height,
			s.TrimLeft, s.TrimTop, s.TrimRight, s.TrimBottom)
	}
	return b.String()
}

// DecodeSeed parses a seed cache blob, verifying the header, version, and
// signature, and rejecting degenerate counts or dimensions the way
// load_layout_seed_cache does.
func DecodeSeed(data []byte, expectedSignature string) (Seed, bool) {
	lines := strings.Split(string(data), "\n")
	if len(lines) < 3 {
		return Seed{}, false
	}

	headerFields := strings.Fields(lines[0])
	if len(headerFields) != 2 || headerFields[0] != seedCacheHeader {
		return Seed{}, false
	}
	if version, err := strconv.Atoi(headerFields[1]); err != nil || version != seedCacheVersion {
		return Seed{}, false
	}

	if strings.TrimSpace(lines[1]) != expectedSignature {
		return Seed{}, false
	}

	meta := strings.Fields(lines[2])
	if len(meta) != 4 {
		return Seed{}, false
	}
	padding, err1 := strconv.Atoi(meta[0])
	width, err2 := strconv.Atoi(meta[1])
	height, err3 := strconv.Atoi(meta[2])
	count, err4 := strconv.Atoi(meta[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return Seed{}, false
	}
	if count <= 0 || width <= 0 || height <= 0 {
		return Seed{}, false
	}
	if len(lines)-3 < count {
		return Seed{}, false
	}

	sprites := make([]sprite.Sprite, 0, count)
	for i := 0; i < count; i++ {
		s, ok := parseSeedSpriteLine(lines[3+i])
		if !ok {
			return Seed{}, false
		}
		sprites = append(sprites, s)
	}

	return Seed{
		Padding: padding,
		Layout:  sprite.AtlasLayout{Width: width, Height: height, Sprites: sprites},
	}, true
}

func parseSeedSpriteLine(line string) (sprite.Sprite, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '"' {
		return sprite.Sprite{}, false
	}

	end := -1
	for i := 1; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return sprite.Sprite{}, false
	}

	path, err := strconv.Unquote(line[:end+1])
	if err != nil {
		return sprite.Sprite{}, false
	}

	rest := strings.Fields(line[end+1:])
	if len(rest) != 8 {
		return sprite.Sprite{}, false
	}
	nums := make([]int, 8)
	for i, f := range rest {
		v, err := strconv.Atoi(f)
		if err != nil {
			return sprite.Sprite{}, false
		}
		nums[i] = v
	}

	return sprite.Sprite{
		Path: path,
		X:    nums[0], Y: nums[1],
		Width: nums[2], Height: nums[3],
		TrimLeft: nums[4], TrimTop: nums[5], TrimRight: nums[6], TrimBottom: nums[7],
	}, true
}
