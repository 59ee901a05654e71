package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cache entries under the cache root",
		Run: func(cmd *cobra.Command, args []string) {
			runList(family)
		},
	}
	cmd.Flags().StringVar(&family, "family", "all", "layout, seed, image, or all")
	return cmd
}

func runList(family string) {
	root := rootCacheDir()
	entries, err := os.ReadDir(root)
	if err != nil {
		exitf("spratcache: reading %q: %v\n", root, err)
	}

	type row struct {
		name   string
		family string
	}
	var rows []row
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var f string
		switch {
		case strings.Contains(name, ".cache.layout."):
			f = "layout"
		case strings.Contains(name, ".cache.seed."):
			f = "seed"
		case name == "imgmeta.cache":
			f = "image"
		default:
			f = "other"
		}
		if family != "all" && f != family {
			continue
		}
		rows = append(rows, row{name: name, family: f})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tFILE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.family, r.name)
	}
	w.Flush()
}
