package layout

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pedroac/sprat/internal/sprat/sprite"
	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

// Params bundles everything the search orchestrator needs beyond the
// sprite list itself (spec §4.4).
type Params struct {
	Mode      Mode
	Objective Objective

	MaxWidth  int // 0 means no explicit cap; a width is still derived.
	MaxHeight int // 0 means no explicit cap.
	Padding   int

	MaxCombinations int // 0 means unlimited.
	Threads         int // 0 means 1.
}

// Result is the outcome of a placement search: the winning layout under
// params.Objective, plus — in COMPACT mode, where both objectives are
// tracked simultaneously (spec §4.4 steps 1/3) — the best candidate found
// under the other objective, so the caller can prewarm it into the cache
// under its own signature (spec §4.4 step 6). Alternate is nil for FAST
// and POT, which never track a second objective.
type Result struct {
	Layout             sprite.AtlasLayout
	Alternate          *sprite.AtlasLayout
	AlternateObjective Objective
}

// SeedHint carries a reused seed layout together with the padding it was
// produced under, so width-candidate generation can widen the hint by the
// padding delta instead of trusting the seed's width verbatim (spec §9
// "Padding delta and cached seeds").
type SeedHint struct {
	Layout  sprite.AtlasLayout
	Padding int
}

// Search runs the placement search for params.Mode and returns the winning
// layout. seed, when non-nil and verified against sprites by VerifySeed, is
// used to bias width-candidate generation and narrow the sort/heuristic
// sets to the guided pair (spec §4.4 "Seed reuse").
func Search(sprites []sprite.Sprite, params Params, seed *SeedHint) (Result, error) {
	if len(sprites) == 0 {
		return Result{}, spraterr.New(spraterr.InvalidInput, "no sprites to pack")
	}

	var verifiedSeed *SeedHint
	if seed != nil && VerifySeed(seed.Layout, sprites, params.Padding) {
		verifiedSeed = seed
	}

	switch params.Mode {
	case ModeFast:
		return searchFast(sprites, params)
	case ModePOT:
		return searchPOT(sprites, params)
	default:
		return searchCompact(sprites, params, verifiedSeed)
	}
}

func widestPaddedWidth(sprites []sprite.Sprite, padding int) int {
	w := 0
	for _, s := range sprites {
		pw, _, err := sprite.PaddedFootprint(s, padding)
		if err == nil && pw > w {
			w = pw
		}
	}
	return w
}

// fastTargetWidth approximates a square atlas width from the total padded
// area, the same starting guess original_source's fast-target computation
// uses before any layout attempt has run.
func fastTargetWidth(sprites []sprite.Sprite, padding int) int {
	total := 0
	for _, s := range sprites {
		pw, ph, err := sprite.PaddedFootprint(s, padding)
		if err != nil {
			continue
		}
		total += pw * ph
	}
	return int(math.Ceil(math.Sqrt(float64(total))))
}

// searchFast implements the FAST mode of spec §4.4: one shelf pack, no
// alternatives considered, at the best width estimate available.
func searchFast(sprites []sprite.Sprite, params Params) (Result, error) {
	width := params.MaxWidth
	if width <= 0 {
		width = fastTargetWidth(sprites, params.Padding)
	}
	width = maxInt(width, widestPaddedWidth(sprites, params.Padding))

	ordered := Sorted(sprites, SortByHeight)
	atlasW, atlasH, ok := TryPackShelf(ordered, width, params.Padding)
	if !ok {
		return Result{}, spraterr.New(spraterr.NoFit, "fast mode: no arrangement fits width %d", width)
	}
	if params.MaxHeight > 0 && atlasH > params.MaxHeight {
		return Result{}, spraterr.New(spraterr.NoFit, "fast mode: packed height %d exceeds max-height %d", atlasH, params.MaxHeight)
	}
	return Result{Layout: sprite.AtlasLayout{Width: atlasW, Height: atlasH, Sprites: ordered}}, nil
}

// searchPOT implements POT mode: widths and heights are both rounded up to
// a power of two, doubling the height guess until something fits.
func searchPOT(sprites []sprite.Sprite, params Params) (Result, error) {
	widest := widestPaddedWidth(sprites, params.Padding)
	baseWidth := params.MaxWidth
	if baseWidth <= 0 {
		baseWidth = fastTargetWidth(sprites, params.Padding)
	}
	startWidth, ok := NextPowerOfTwo(maxInt(baseWidth, widest))
	if !ok {
		return Result{}, spraterr.New(spraterr.ArithmeticOverflow, "pot mode: width overflow")
	}

	widths := []int{startWidth}
	if doubled, ok := NextPowerOfTwo(startWidth + 1); ok && (params.MaxWidth <= 0 || doubled <= params.MaxWidth) {
		widths = append(widths, doubled)
	}

	var best *sprite.AtlasLayout
	var bestArea, bestW, bestH int
	haveBest := false

	for _, width := range widths {
		if params.MaxWidth > 0 && width > params.MaxWidth {
			continue
		}
		height, ok := NextPowerOfTwo(maxInt(1, fastTargetWidth(sprites, params.Padding)))
		if !ok {
			continue
		}
		for {
			if params.MaxHeight > 0 && height > params.MaxHeight {
				break
			}
			foundAtThisHeight := false
			for _, order := range PotSortOrders {
				ordered := Sorted(sprites, order)
				for _, h := range GuidedHeuristics {
					working := sprite.Clone(ordered)
					usedW, usedH, ok := TryPackMaxRects(working, width, height, params.Padding, h)
					if !ok {
						continue
					}
					potW, okw := NextPowerOfTwo(usedW)
					potH, okh := NextPowerOfTwo(usedH)
					if !okw || !okh {
						continue
					}
					if params.MaxHeight > 0 && potH > params.MaxHeight {
						continue
					}
					foundAtThisHeight = true
					area := potW * potH
					if Better(params.Objective, area, potW, potH, haveBest, bestArea, bestW, bestH) {
						l := sprite.AtlasLayout{Width: potW, Height: potH, Sprites: working}
						best = &l
						bestArea, bestW, bestH = area, potW, potH
						haveBest = true
					}
				}
			}
			if foundAtThisHeight {
				break
			}
			next, ok := NextPowerOfTwo(height + 1)
			if !ok || next == height {
				break
			}
			height = next
		}
	}

	if !haveBest {
		return Result{}, spraterr.New(spraterr.NoFit, "pot mode: no power-of-two arrangement fits")
	}
	return Result{Layout: *best}, nil
}

// widthCandidates generates the guided set of widths to try in COMPACT
// mode: every anchor (seed width, fast-target width, widest-sprite width)
// offset by {0,±1,±2,±4,±8,±12} multiples of a per-anchor step, raised to
// the widest single sprite, with any candidate above the --max-width cap
// dropped (spec §4.4, supplemented
// from original_source/src/spratlayout.cpp's width_candidates). A seed
// produced under a different padding is widened by the padding delta before
// it anchors anything — spec §9 "Padding delta and cached seeds": the seed
// width is only ever a hint, never trusted verbatim across a padding change.
func widthCandidates(sprites []sprite.Sprite, padding, maxWidth int, seed *SeedHint) []int {
	widest := widestPaddedWidth(sprites, padding)
	if widest == 0 {
		return nil
	}

	anchors := map[int]bool{
		fastTargetWidth(sprites, padding): true,
		widest:                            true,
	}
	if seed != nil {
		anchors[seed.Layout.Width+(padding-seed.Padding)] = true
	}

	offsets := []int{0, 1, -1, 2, -2, 4, -4, 8, -8, 12, -12}

	seen := map[int]bool{}
	var out []int
	for anchor := range anchors {
		if anchor <= 0 {
			continue
		}
		step := maxInt(8, anchor/24)
		for _, m := range offsets {
			c := anchor + m*step
			if c < widest {
				c = widest
			}
			if maxWidth > 0 && c > maxWidth {
				continue
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}

	sort.Ints(out)
	return out
}

// searchCompact implements COMPACT mode: a parallel sweep over guided
// width candidates evaluated against MaxRects (every sort order and
// heuristic, narrowed to the guided pair once a verified seed is
// available), followed by a second parallel pass that tries the shelf
// kernel at the same widths as a GPU-shape cross-check (spec §4.4 step 4).
// Both passes feed one tracker that keeps the best candidate under each
// objective simultaneously (steps 1/3), so the caller can prewarm the
// objective it didn't pick (step 6). A combination budget and a bounded
// worker pool (golang.org/x/sync/errgroup) cap the search's cost.
func searchCompact(sprites []sprite.Sprite, params Params, seed *SeedHint) (Result, error) {
	widths := widthCandidates(sprites, params.Padding, params.MaxWidth, seed)
	if len(widths) == 0 {
		return Result{}, spraterr.New(spraterr.NoFit, "compact mode: no width candidates")
	}

	sortOrders := CompactSortOrders
	heuristics := CompactHeuristics
	if seed != nil {
		sortOrders = GuidedSortOrders
		heuristics = GuidedHeuristics
	}

	threads := params.Threads
	if threads <= 0 {
		threads = 1
	}
	if threads > len(widths) {
		threads = len(widths)
	}

	var budget int64 = -1
	if params.MaxCombinations > 0 {
		budget = int64(params.MaxCombinations)
	}
	takeBudget := func() bool {
		return budget < 0 || atomic.AddInt64(&budget, -1) >= 0
	}

	maxHeight := params.MaxHeight
	if maxHeight <= 0 {
		maxHeight = math.MaxInt32 / 2
	}

	var tracker objectiveTracker

	runPass := func(attempt func(width int) error) {
		g, _ := errgroup.WithContext(context.Background())
		sem := make(chan struct{}, threads)
		for _, width := range widths {
			width := width
			sem <- struct{}{}
			g.Go(func() error {
				defer func() { <-sem }()
				return attempt(width)
			})
		}
		_ = g.Wait()
	}

	// Pass 1: MaxRects across every selected sort order and heuristic.
	runPass(func(width int) error {
		for _, order := range sortOrders {
			ordered := Sorted(sprites, order)
			for _, h := range heuristics {
				if !takeBudget() {
					return nil
				}
				working := sprite.Clone(ordered)
				usedW, usedH, ok := TryPackMaxRects(working, width, maxHeight, params.Padding, h)
				if !ok {
					continue
				}
				tracker.consider(sprite.AtlasLayout{Width: usedW, Height: usedH, Sprites: working})
			}
		}
		return nil
	})

	// Pass 2: shelf cross-check at the same widths (spec §4.4 step 4).
	runPass(func(width int) error {
		if !takeBudget() {
			return nil
		}
		ordered := Sorted(sprites, SortByHeight)
		working := sprite.Clone(ordered)
		atlasW, atlasH, ok := TryPackShelf(working, width, params.Padding)
		if !ok || atlasH > maxHeight {
			return nil
		}
		tracker.consider(sprite.AtlasLayout{Width: atlasW, Height: atlasH, Sprites: working})
		return nil
	})

	if !tracker.haveGPU && !tracker.haveSpace {
		return Result{}, spraterr.New(spraterr.NoFit, "compact mode: no arrangement fits any candidate width")
	}

	primary, alternate, alternateObjective := tracker.pick(params.Objective)
	return Result{Layout: *primary, Alternate: alternate, AlternateObjective: alternateObjective}, nil
}

// objectiveTracker keeps the best candidate under both objectives
// simultaneously, as spec §4.4 steps 1/3 require for COMPACT mode.
type objectiveTracker struct {
	mu sync.Mutex

	gpu        *sprite.AtlasLayout
	gpuArea    int
	gpuW, gpuH int
	haveGPU    bool

	space          *sprite.AtlasLayout
	spaceArea      int
	spaceW, spaceH int
	haveSpace      bool
}

func (t *objectiveTracker) consider(candidate sprite.AtlasLayout) {
	area := candidate.Width * candidate.Height
	t.mu.Lock()
	defer t.mu.Unlock()
	if Better(ObjectiveGPU, area, candidate.Width, candidate.Height, t.haveGPU, t.gpuArea, t.gpuW, t.gpuH) {
		l := candidate
		t.gpu = &l
		t.gpuArea, t.gpuW, t.gpuH = area, candidate.Width, candidate.Height
		t.haveGPU = true
	}
	if Better(ObjectiveSpace, area, candidate.Width, candidate.Height, t.haveSpace, t.spaceArea, t.spaceW, t.spaceH) {
		l := candidate
		t.space = &l
		t.spaceArea, t.spaceW, t.spaceH = area, candidate.Width, candidate.Height
		t.haveSpace = true
	}
}

// pick returns the winner under objective and the best candidate under the
// other objective (falling back to the winner's own objective's candidate
// when only one objective ever found a fit).
func (t *objectiveTracker) pick(objective Objective) (primary, alternate *sprite.AtlasLayout, alternateObjective Objective) {
	if objective == ObjectiveSpace {
		alternateObjective = ObjectiveGPU
		primary, alternate = t.space, t.gpu
	} else {
		alternateObjective = ObjectiveSpace
		primary, alternate = t.gpu, t.space
	}
	if primary == nil {
		primary = alternate
	}
	return primary, alternate, alternateObjective
}
