package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/pedroac/sprat/internal/sprat/cache"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Open an interactive shell for browsing cache entries",
		Run: func(cmd *cobra.Command, args []string) {
			runInspect()
		},
	}
}

func runInspect() {
	root := rootCacheDir()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "spratcache> ",
		HistoryFile: filepath.Join(os.TempDir(), "spratcache_history"),
	})
	if err != nil {
		exitf("spratcache: starting interactive shell: %v\n", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stderr(), "inspecting %s (type \"help\" for commands, \"quit\" to exit)\n", root)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Fprintln(rl.Stdout(), "commands: list [family], show FILE, prune, quit")
		case "quit", "exit":
			return
		case "list":
			family := "all"
			if len(fields) > 1 {
				family = fields[1]
			}
			runList(family)
		case "show":
			if len(fields) != 2 {
				fmt.Fprintln(rl.Stderr(), "usage: show FILE")
				continue
			}
			runShow(fields[1])
		case "prune":
			runPrune(int(cache.DefaultLimits.MaxAge.Hours()), cache.DefaultLimits.MaxFiles, cache.DefaultSeedLimits.MaxFiles)
		default:
			fmt.Fprintf(rl.Stderr(), "unknown command %q\n", fields[0])
		}
	}
}
