// The spratlayout tool measures a set of input images and computes a
// dense two-dimensional placement of them on a single atlas, emitting the
// layout text format downstream rendering/unpacking/conversion tools
// consume. Run "spratlayout -h" for the flag surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pedroac/sprat/internal/sprat/cache"
	"github.com/pedroac/sprat/internal/sprat/diag"
	"github.com/pedroac/sprat/internal/sprat/encode"
	"github.com/pedroac/sprat/internal/sprat/imgmeta"
	"github.com/pedroac/sprat/internal/sprat/layout"
	"github.com/pedroac/sprat/internal/sprat/profile"
	"github.com/pedroac/sprat/internal/sprat/source"
	"github.com/pedroac/sprat/internal/sprat/spraterr"
	"github.com/pedroac/sprat/internal/sprat/sprite"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:

        spratlayout <folder-or-list-or-tar-or-> [flags]

Resolution rescaling (when both --source-resolution and --target-resolution
are given) is multiplied with --scale, not overridden by it.

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("spratlayout", flag.ContinueOnError)
	fs.Usage = usage

	profileName := fs.String("profile", "", "named profile to resolve defaults from")
	profilesConfig := fs.String("profiles-config", "", "explicit profiles config path")
	modeFlag := fs.String("mode", "", "compact, pot, or fast")
	optimizeFlag := fs.String("optimize", "", "gpu or space")
	maxWidth := fs.Int("max-width", 0, "maximum atlas width")
	maxHeight := fs.Int("max-height", 0, "maximum atlas height")
	padding := fs.Int("padding", -1, "pixels of blank space between sprites")
	maxCombinations := fs.Int("max-combinations", 0, "bound on kernel invocations (0 = unlimited)")
	sourceResolution := fs.String("source-resolution", "", "WxH design resolution of the inputs")
	targetResolution := fs.String("target-resolution", "", "WxH target resolution, or \"source\"")
	resolutionReference := fs.String("resolution-reference", "", "largest or smallest")
	scaleFlag := fs.Float64("scale", 0, "uniform scale factor, 0 < F <= 1")
	trimTransparent := fs.Bool("trim-transparent", false, "trim transparent margins")
	noTrimTransparent := fs.Bool("no-trim-transparent", false, "disable trim even if the profile enables it")
	threads := fs.Int("threads", 0, "worker thread cap (0 = profile/default)")
	verbose := fs.Bool("v", false, "verbose timing diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "spratlayout: exactly one input argument is required")
		usage()
		return 1
	}

	d := diag.New(*verbose)
	ov, err := buildOverrides(profileName, profilesConfig, modeFlag, optimizeFlag,
		maxWidth, maxHeight, padding, maxCombinations,
		sourceResolution, targetResolution, resolutionReference,
		scaleFlag, trimTransparent, noTrimTransparent, threads)
	if err != nil {
		d.Errorf("%v", err)
		return spraterr.ExitCode(err)
	}

	resolved, err := profile.Resolve(ov)
	if err != nil {
		d.Errorf("%v", err)
		return spraterr.ExitCode(err)
	}

	if err := runLayout(fs.Arg(0), resolved, d); err != nil {
		d.Errorf("%v", err)
		return spraterr.ExitCode(err)
	}
	return 0
}

func buildOverrides(
	profileName, profilesConfig, modeFlag, optimizeFlag *string,
	maxWidth, maxHeight, padding, maxCombinations *int,
	sourceResolution, targetResolution, resolutionReference *string,
	scaleFlag *float64,
	trimTransparent, noTrimTransparent *bool,
	threads *int,
) (profile.Overrides, error) {
	ov := profile.Overrides{
		ProfilesConfigPath: *profilesConfig,
		ProfileName:        *profileName,
	}

	if *modeFlag != "" {
		m, ok := layout.ParseMode(*modeFlag)
		if !ok {
			return ov, spraterr.New(spraterr.InvalidConfig, "invalid --mode %q", *modeFlag)
		}
		ov.Mode = &m
	}
	if *optimizeFlag != "" {
		o, ok := layout.ParseObjective(*optimizeFlag)
		if !ok {
			return ov, spraterr.New(spraterr.InvalidConfig, "invalid --optimize %q", *optimizeFlag)
		}
		ov.Objective = &o
	}
	if *maxWidth > 0 {
		ov.MaxWidth = maxWidth
	}
	if *maxHeight > 0 {
		ov.MaxHeight = maxHeight
	}
	if *padding >= 0 {
		ov.Padding = padding
	}
	if *maxCombinations > 0 {
		ov.MaxCombinations = maxCombinations
	}
	if *scaleFlag > 0 {
		if *scaleFlag > 1.0 {
			return ov, spraterr.New(spraterr.InvalidConfig, "--scale must satisfy 0 < F <= 1, got %v", *scaleFlag)
		}
		ov.Scale = scaleFlag
	}
	if *trimTransparent {
		v := true
		ov.TrimTransparent = &v
	}
	if *noTrimTransparent {
		v := false
		ov.TrimTransparent = &v
	}
	if *threads > 0 {
		ov.Threads = threads
	}

	if *resolutionReference != "" {
		switch *resolutionReference {
		case "largest":
			r := profile.ReferenceLargest
			ov.ResolutionReference = &r
		case "smallest":
			r := profile.ReferenceSmallest
			ov.ResolutionReference = &r
		default:
			return ov, spraterr.New(spraterr.InvalidConfig, "invalid --resolution-reference %q", *resolutionReference)
		}
	}
	if *sourceResolution != "" {
		res, err := parseWxH(*sourceResolution)
		if err != nil {
			return ov, spraterr.New(spraterr.InvalidConfig, "invalid --source-resolution %q", *sourceResolution)
		}
		ov.SourceResolution = &res
	}
	if *targetResolution != "" {
		if *targetResolution == "source" {
			res := [2]int{-1, -1}
			ov.TargetResolution = &res
		} else {
			res, err := parseWxH(*targetResolution)
			if err != nil {
				return ov, spraterr.New(spraterr.InvalidConfig, "invalid --target-resolution %q", *targetResolution)
			}
			ov.TargetResolution = &res
		}
	}

	return ov, nil
}

func parseWxH(s string) ([2]int, error) {
	var w, h int
	n, err := fmt.Sscanf(s, "%dx%d", &w, &h)
	if err != nil || n != 2 || w <= 0 || h <= 0 {
		return [2]int{}, spraterr.New(spraterr.InvalidConfig, "invalid WxH value %q", s)
	}
	return [2]int{w, h}, nil
}

func runLayout(arg string, resolved profile.Resolved, d *diag.Printer) error {
	stop := d.Stage("resolve sources")
	set, err := source.Resolve(arg)
	stop()
	if err != nil {
		return err
	}
	if set.Cleanup != nil {
		defer set.Cleanup()
	}
	if len(set.Images) == 0 {
		return spraterr.New(spraterr.InvalidInput, "no supported images found in %q", arg)
	}

	root, err := cache.Root()
	if err != nil {
		d.Warnf("%v", err)
	} else {
		cache.RemoveLegacyTopLevelFiles()
	}

	sprites, err := measureSprites(set, resolved, root, d)
	if err != nil {
		return err
	}

	sigInputs := layout.SignatureInputs{
		Profile:         resolved.ProfileName,
		Mode:            resolved.Mode,
		Objective:       resolved.Objective,
		MaxWidth:        resolved.MaxWidth,
		MaxHeight:       resolved.MaxHeight,
		Padding:         resolved.Padding,
		MaxCombinations: resolved.MaxCombinations,
		Scale:           resolved.Scale,
		TrimTransparent: resolved.TrimTransparent,
		SourceOrder:     false,
		Sources:         set.Images,
	}
	signature := layout.Signature(sigInputs)
	seedSignature := layout.SeedSignature(sigInputs)

	var layoutCache, seedCache *cache.SignatureCache
	if root != "" {
		layoutCache = cache.NewLayoutCache(root)
		seedCache = cache.NewSeedCache(root)

		if data, ok := layoutCache.Load(signature); ok {
			fmt.Print(string(data))
			return nil
		}
	}

	var seed *layout.SeedHint
	if seedCache != nil {
		if data, ok := seedCache.Load(seedSignature); ok {
			if decoded, ok := encode.DecodeSeed(data, seedSignature); ok {
				seed = &layout.SeedHint{Layout: decoded.Layout, Padding: decoded.Padding}
			}
		}
	}

	stop = d.Stage("search")
	searchResult, err := layout.Search(sprites, layout.Params{
		Mode:            resolved.Mode,
		Objective:       resolved.Objective,
		MaxWidth:        resolved.MaxWidth,
		MaxHeight:       resolved.MaxHeight,
		Padding:         resolved.Padding,
		MaxCombinations: resolved.MaxCombinations,
		Threads:         resolved.Threads,
	}, seed)
	stop()
	if err != nil {
		return err
	}
	result := searchResult.Layout
	result.Scale = resolved.Scale

	if !sprite.ValidateLayout(result, resolved.Padding) {
		return spraterr.New(spraterr.NoFit, "search produced an invalid layout")
	}

	text := encode.Layout(result, resolved.TrimTransparent)
	fmt.Print(text)

	if layoutCache != nil {
		if err := layoutCache.Store(signature, []byte(text)); err != nil {
			d.Warnf("%v", err)
		}
	}
	if seedCache != nil {
		seedText := encode.EncodeSeed(seedSignature, resolved.Padding, result)
		if err := seedCache.Store(seedSignature, []byte(seedText)); err != nil {
			d.Warnf("%v", err)
		}
	}
	if layoutCache != nil && searchResult.Alternate != nil {
		alternate := *searchResult.Alternate
		alternate.Scale = resolved.Scale
		altSigInputs := sigInputs
		altSigInputs.Objective = searchResult.AlternateObjective
		altSignature := layout.Signature(altSigInputs)
		altText := encode.Layout(alternate, resolved.TrimTransparent)
		if err := layoutCache.Store(altSignature, []byte(altText)); err != nil {
			d.Warnf("%v", err)
		}
	}
	if root != "" {
		if err := cache.PruneAll(root, cache.DefaultLimits, cache.DefaultSeedLimits); err != nil {
			d.Warnf("%v", err)
		}
	}

	return nil
}

func measureSprites(set source.Set, resolved profile.Resolved, cacheRoot string, d *diag.Printer) ([]sprite.Sprite, error) {
	var imageCache *cache.ImageCache
	if cacheRoot != "" {
		ic, err := cache.Open(cacheRoot)
		if err == nil {
			imageCache = ic
		}
	}

	stop := d.Stage("measure images")
	defer stop()

	sprites := make([]sprite.Sprite, 0, len(set.Images))
	for _, img := range set.Images {
		meta, fromCache, err := lookupOrRead(img, resolved.TrimTransparent, imageCache)
		if err != nil {
			if set.StrictDecode {
				return nil, err
			}
			d.Warnf("skipping %q: %v", img.Path, err)
			continue
		}
		if !fromCache && imageCache != nil {
			imageCache.Store(img.Path, img.Size, img.ModTimeTicks, meta)
		}

		w, h := meta.Width, meta.Height
		if resolved.Scale != 1.0 {
			sw, ok1 := sprite.ScaleDimension(w, resolved.Scale)
			sh, ok2 := sprite.ScaleDimension(h, resolved.Scale)
			if !ok1 || !ok2 {
				return nil, spraterr.New(spraterr.InvalidConfig, "sprite %q: scaled dimensions overflow", img.Path)
			}
			w, h = sw, sh
		}

		sprites = append(sprites, sprite.Sprite{
			Path: img.Path, Width: w, Height: h,
			TrimLeft: meta.TrimLeft, TrimTop: meta.TrimTop,
			TrimRight: meta.TrimRight, TrimBottom: meta.TrimBottom,
		})
	}

	if imageCache != nil {
		if err := imageCache.Flush(); err != nil {
			d.Warnf("%v", err)
		}
	}

	return sprites, nil
}

func lookupOrRead(img source.Image, trim bool, imageCache *cache.ImageCache) (imgmeta.Meta, bool, error) {
	if imageCache != nil {
		if m, ok := imageCache.Lookup(img.Path, img.Size, img.ModTimeTicks); ok {
			return m, true, nil
		}
	}
	m, err := imgmeta.Read(img.AbsPath, trim)
	if err != nil {
		return imgmeta.Meta{}, false, err
	}
	return m, false, nil
}
