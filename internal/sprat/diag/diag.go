// Package diag centralizes the engine's stderr diagnostics, following the
// teacher's plain fmt.Fprintf(os.Stderr, ...) convention rather than a
// structured logging library: spratlayout is a one-shot CLI whose only
// consumer of "logs" is the operator's terminal.
package diag

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Printer writes diagnostics to a fixed stream, with verbose mode gating
// timing/progress lines the way golang-debug's -prof flag gates profiling
// output and noisetorch's -v flag gates its own verbose logging.
type Printer struct {
	w       io.Writer
	verbose bool
}

// New returns a Printer writing to os.Stderr.
func New(verbose bool) *Printer {
	return &Printer{w: os.Stderr, verbose: verbose}
}

// Errorf prints a fatal or non-fatal diagnostic unconditionally.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Warnf prints a non-fatal diagnostic (e.g. a skipped image, a cache miss).
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.w, "warning: "+format+"\n", args...)
}

// Verbosef prints only when verbose mode is enabled.
func (p *Printer) Verbosef(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Stage times a named stage of the pipeline and reports it when verbose.
func (p *Printer) Stage(name string) func() {
	if !p.verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		p.Verbosef("%s: %s", name, time.Since(start))
	}
}
