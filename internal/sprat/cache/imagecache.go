package cache

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pedroac/sprat/internal/sprat/imgmeta"
)

const imageCacheHeader = "spratlayout_cache 1"
const imageCacheFileName = "imgmeta.cache"

// ImageCache memoizes imgmeta.Read results keyed by a (path, size, mtime)
// fingerprint, so a second run over an unchanged tree skips re-decoding
// every image (spec §4.5 "Image cache").
type ImageCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]imgmeta.Meta
	dirty   bool
}

func fingerprintKey(path string, size, mtime int64) string {
	return fmt.Sprintf("%s|%d|%d", path, size, mtime)
}

// Open loads the image cache from root, tolerating a missing or corrupt
// file by starting empty — a cache is a performance aid, never a
// correctness requirement (spec §4.5).
func Open(root string) (*ImageCache, error) {
	c := &ImageCache{
		path:    filepath.Join(root, imageCacheFileName),
		entries: map[string]imgmeta.Meta{},
	}
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return c, nil
	}
	if strings.TrimSpace(scanner.Text()) != imageCacheHeader {
		return c, nil
	}
	for scanner.Scan() {
		entry, key, ok := parseImageCacheLine(scanner.Text())
		if !ok {
			continue
		}
		c.entries[key] = entry
	}
	return c, nil
}

func parseImageCacheLine(line string) (imgmeta.Meta, string, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return imgmeta.Meta{}, "", false
	}
	path := fields[0]
	size, err1 := strconv.ParseInt(fields[1], 10, 64)
	mtime, err2 := strconv.ParseInt(fields[2], 10, 64)
	w, err3 := strconv.Atoi(fields[3])
	h, err4 := strconv.Atoi(fields[4])
	tl, err5 := strconv.Atoi(fields[5])
	tt, err6 := strconv.Atoi(fields[6])
	tr, err7 := strconv.Atoi(fields[7])
	tb, err8 := strconv.Atoi(fields[8])
	for _, e := range []error{err1, err2, err3, err4, err5, err6, err7, err8} {
		if e != nil {
			return imgmeta.Meta{}, "", false
		}
	}
	return imgmeta.Meta{
		Width: w, Height: h,
		TrimLeft: tl, TrimTop: tt, TrimRight: tr, TrimBottom: tb,
	}, fingerprintKey(path, size, mtime), true
}

// Lookup returns the cached meta for path at the given fingerprint, if
// present and the fingerprint matches exactly (a changed size or mtime is
// a cache miss, never a stale hit).
func (c *ImageCache) Lookup(path string, size, mtime int64) (imgmeta.Meta, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[fingerprintKey(path, size, mtime)]
	return m, ok
}

// Store records meta for path at the given fingerprint, replacing any
// previous entry for the same path (under any fingerprint).
func (c *ImageCache) Store(path string, size, mtime int64, meta imgmeta.Meta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, path+"|") {
			delete(c.entries, k)
		}
	}
	c.entries[fingerprintKey(path, size, mtime)] = meta
	c.dirty = true
}

// Flush rewrites the cache file if it has changed since Open, atomically.
func (c *ImageCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	var b strings.Builder
	b.WriteString(imageCacheHeader)
	b.WriteByte('\n')
	for key, m := range c.entries {
		path, size, mtime, ok := splitFingerprintKey(key)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			path, size, mtime, m.Width, m.Height, m.TrimLeft, m.TrimTop, m.TrimRight, m.TrimBottom)
	}

	if err := atomicWrite(c.path, []byte(b.String())); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func splitFingerprintKey(key string) (path string, size, mtime int64, ok bool) {
	last := strings.LastIndexByte(key, '|')
	if last < 0 {
		return "", 0, 0, false
	}
	secondLast := strings.LastIndexByte(key[:last], '|')
	if secondLast < 0 {
		return "", 0, 0, false
	}
	path = key[:secondLast]
	size, err1 := strconv.ParseInt(key[secondLast+1:last], 10, 64)
	mtime, err2 := strconv.ParseInt(key[last+1:], 10, 64)
	if err1 != nil || err2 != nil {
		return "", 0, 0, false
	}
	return path, size, mtime, true
}
