// Package cache implements the two persistent caches spec §4.5/§4.6
// describe: an image-meta cache keyed by (path, size, mtime) fingerprint,
// and signature-keyed layout/seed caches, plus the janitor that bounds
// the layout and seed families by age and count (the image-meta cache
// file is not pruned by it).
package cache

import (
	"os"
	"path/filepath"

	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

// Root returns the cache root directory: a "sprat" subdirectory of the
// system temp dir (spec §4.5), created on first use.
func Root() (string, error) {
	root := filepath.Join(os.TempDir(), "sprat")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", spraterr.New(spraterr.CacheIO, "creating cache root %q: %v", root, err)
	}
	return root, nil
}

// atomicWrite writes data to path via a temp file in the same directory
// followed by a rename, so a reader never observes a partial write
// (spec §4.5 "Cache writes are atomic.").
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return spraterr.New(spraterr.CacheIO, "creating temp file in %q: %v", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return spraterr.New(spraterr.CacheIO, "writing %q: %v", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return spraterr.New(spraterr.CacheIO, "closing %q: %v", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return spraterr.New(spraterr.CacheIO, "renaming %q to %q: %v", tmpPath, path, err)
	}
	return nil
}
