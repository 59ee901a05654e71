package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pedroac/sprat/internal/sprat/cache"
)

func newPruneCommand() *cobra.Command {
	var maxAgeHours int
	var maxLayoutFiles int
	var maxSeedFiles int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Run the cache janitor against the cache root",
		Run: func(cmd *cobra.Command, args []string) {
			runPrune(maxAgeHours, maxLayoutFiles, maxSeedFiles)
		},
	}
	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", int(cache.DefaultLimits.MaxAge.Hours()), "evict cache files older than this many hours")
	cmd.Flags().IntVar(&maxLayoutFiles, "max-layout-files", cache.DefaultLimits.MaxFiles, "keep at most this many layout cache files")
	cmd.Flags().IntVar(&maxSeedFiles, "max-seed-files", cache.DefaultSeedLimits.MaxFiles, "keep at most this many seed cache files")
	return cmd
}

func runPrune(maxAgeHours, maxLayoutFiles, maxSeedFiles int) {
	root := rootCacheDir()
	cache.RemoveLegacyTopLevelFiles()

	age := time.Duration(maxAgeHours) * time.Hour
	err := cache.PruneAll(root,
		cache.Limits{MaxAge: age, MaxFiles: maxLayoutFiles},
		cache.Limits{MaxAge: age, MaxFiles: maxSeedFiles})
	if err != nil {
		exitf("spratcache: pruning %q: %v\n", root, err)
	}
	fmt.Printf("pruned %s\n", root)
}
