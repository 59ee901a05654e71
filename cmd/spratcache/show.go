package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print one cache file's raw contents",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runShow(args[0])
		},
	}
}

func runShow(name string) {
	root := rootCacheDir()
	path := filepath.Join(root, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		exitf("spratcache: reading %q: %v\n", path, err)
	}
	fmt.Print(string(data))
}
