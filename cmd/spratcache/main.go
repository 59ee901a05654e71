// The spratcache tool is a small operator-facing companion to spratlayout:
// it lists, inspects, and prunes the on-disk layout/seed/image caches
// under <system-tempdir>/sprat/. It emits no part of the layout pipeline's
// data contract; it exists purely so an operator can see what the engine
// has cached.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pedroac/sprat/internal/sprat/cache"
)

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func rootCacheDir() string {
	root, err := cache.Root()
	if err != nil {
		exitf("spratcache: %v\n", err)
	}
	return root
}

func main() {
	root := &cobra.Command{
		Use:   "spratcache",
		Short: "Inspect and prune the spratlayout on-disk caches",
	}

	root.AddCommand(newListCommand())
	root.AddCommand(newShowCommand())
	root.AddCommand(newPruneCommand())
	root.AddCommand(newInspectCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
