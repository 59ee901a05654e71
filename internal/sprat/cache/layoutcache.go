package cache

import (
	"os"
	"path/filepath"

	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

const layoutCacheSuffix = ".cache.layout"
const seedCacheSuffix = ".cache.seed"

// SignatureCache is a signature-keyed blob store: one file per signature,
// written atomically. LayoutCache and SeedCache (spec §4.5/§3 "Layout
// signature"/"seed signature") are both instances of this shape, the
// layout cache keyed by the full signature and the seed cache by the
// weaker seed signature.
type SignatureCache struct {
	root   string
	suffix string
}

func newSignatureCache(root, suffix string) *SignatureCache {
	return &SignatureCache{root: root, suffix: suffix}
}

// NewLayoutCache stores full encoded layouts keyed by the full signature.
func NewLayoutCache(root string) *SignatureCache { return newSignatureCache(root, layoutCacheSuffix) }

// NewSeedCache stores encoded layouts keyed by the weaker seed signature,
// reused as a hot-start hint even when padding differs (spec §4.4).
func NewSeedCache(root string) *SignatureCache { return newSignatureCache(root, seedCacheSuffix) }

func (c *SignatureCache) path(signature string) string {
	return filepath.Join(c.root, "spratlayout"+c.suffix+"."+signature)
}

// Load returns the cached bytes for signature, or ok=false on a miss. A
// read error is treated the same as a miss: the cache is a performance
// aid, so a caller always falls back to recomputing the layout.
func (c *SignatureCache) Load(signature string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(signature))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Store writes data for signature atomically.
func (c *SignatureCache) Store(signature string, data []byte) error {
	return atomicWrite(c.path(signature), data)
}

// Remove deletes the cached entry for signature, if any.
func (c *SignatureCache) Remove(signature string) error {
	err := os.Remove(c.path(signature))
	if err != nil && !os.IsNotExist(err) {
		return spraterr.New(spraterr.CacheIO, "removing %q: %v", c.path(signature), err)
	}
	return nil
}
