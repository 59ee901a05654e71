package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Limits bounds one cache family by age and count, mirroring
// original_source's prune_cache_family_group (spec §4.6 "Cache janitor").
type Limits struct {
	MaxAge   time.Duration
	MaxFiles int
}

// pruneGroup removes any ".tmp-*" leftovers unconditionally, then anything
// older than limits.MaxAge, then (if still over limits.MaxFiles) the
// oldest-by-mtime files beyond the count bound. limits.MaxFiles == 0
// disables the family entirely (nothing is pruned, matching the original's
// early return on max_files_to_keep == 0 — a zero limit there means "the
// janitor doesn't manage this family").
func pruneGroup(root, suffix string, limits Limits) error {
	if limits.MaxFiles == 0 {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	type fileInfo struct {
		path  string
		mtime time.Time
	}
	var kept []fileInfo
	now := time.Now()

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".tmp-") {
			os.Remove(filepath.Join(root, name))
			continue
		}
		if !strings.HasSuffix(name, suffix) && !strings.Contains(name, suffix+".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > limits.MaxAge {
			os.Remove(filepath.Join(root, name))
			continue
		}
		kept = append(kept, fileInfo{path: filepath.Join(root, name), mtime: info.ModTime()})
	}

	if len(kept) <= limits.MaxFiles {
		return nil
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].mtime.After(kept[j].mtime) })
	for _, f := range kept[limits.MaxFiles:] {
		os.Remove(f.path)
	}
	return nil
}

// PruneAll runs the janitor over both the layout and seed cache families
// rooted at root (spec §4.6).
func PruneAll(root string, layoutLimits, seedLimits Limits) error {
	if err := pruneGroup(root, layoutCacheSuffix, layoutLimits); err != nil {
		return err
	}
	return pruneGroup(root, seedCacheSuffix, seedLimits)
}

// RemoveLegacyTopLevelFiles deletes any stray "spratlayout_*.cache*" file
// sitting directly in the system temp dir from before the "sprat/"
// subdirectory convention existed (spec §4.6, supplemented from
// original_source's remove_legacy_top_level_cache_files). Run once per
// invocation; a no-op once the legacy files are gone.
func RemoveLegacyTopLevelFiles() {
	tmp := os.TempDir()
	active, err := Root()
	if err != nil || tmp == active {
		return
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "spratlayout_") || !strings.Contains(name, ".cache") {
			continue
		}
		os.Remove(filepath.Join(tmp, name))
	}
}

// DefaultLimits is the janitor's built-in age/count bound for the layout
// cache family, applied when a caller does not override it (spec §4.6: an
// hour of age, 16 layouts kept).
var DefaultLimits = Limits{MaxAge: time.Hour, MaxFiles: 16}

// DefaultSeedLimits is the built-in bound for the seed cache family (spec
// §4.6: same age bound, 8 seeds kept).
var DefaultSeedLimits = Limits{MaxAge: time.Hour, MaxFiles: 8}
