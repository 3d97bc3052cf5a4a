package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// ResultCache keeps recent extraction results in memory, keyed by absolute
// path. An entry is only served when its hash matches the caller's, so a
// rewritten file misses even before the watcher invalidates it.
//
// **Thread Safety:** the underlying LRU is synchronized; counters are
// atomic.
type ResultCache struct {
	cache *lru.Cache[string, *FileDocs]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	config ResultCacheConfig
	logger *slog.Logger
}

// NewResultCache creates a cache. logger may be nil.
func NewResultCache(config ResultCacheConfig, logger *slog.Logger) *ResultCache {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedFiles <= 0 {
		config.MaxCachedFiles = 1000
	}

	rc := &ResultCache{config: config, logger: logger}
	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(key string, _ *FileDocs) {
		rc.evictions.Add(1)
		if config.Debug {
			logger.Debug("LRU evicting result", "path", key)
		}
	})
	if err != nil {
		// only reachable with a non-positive size, excluded above
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	rc.cache = cache
	return rc
}

// Get returns the cached docs for path when they were stored with hash.
func (rc *ResultCache) Get(path, hash string) (*FileDocs, bool) {
	docs, ok := rc.cache.Get(path)
	if !ok || docs.Hash != hash {
		rc.misses.Add(1)
		return nil, false
	}
	rc.hits.Add(1)
	return docs, true
}

// Peek returns the cached docs for path regardless of hash, without
// touching recency.
func (rc *ResultCache) Peek(path string) (*FileDocs, bool) {
	return rc.cache.Peek(path)
}

// Add stores docs under docs.Path.
func (rc *ResultCache) Add(docs *FileDocs) {
	if docs == nil || docs.Path == "" {
		return
	}
	rc.cache.Add(docs.Path, docs)
}

// Remove drops path from the cache.
func (rc *ResultCache) Remove(path string) {
	rc.cache.Remove(path)
}

// Len returns the number of cached files.
func (rc *ResultCache) Len() int {
	return rc.cache.Len()
}

// GetStats returns current cache statistics.
func (rc *ResultCache) GetStats() ResultCacheStats {
	hits := rc.hits.Load()
	misses := rc.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return ResultCacheStats{
		CachedFiles:  rc.cache.Len(),
		CacheHits:    hits,
		CacheMisses:  misses,
		CacheHitRate: rate,
		Evictions:    rc.evictions.Load(),
	}
}

// Purge empties the cache.
func (rc *ResultCache) Purge() {
	rc.cache.Purge()
}

// ComputeContentHash computes the SHA-256 hash of file content.
func ComputeContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// DocsHash identifies content extracted under opts. Options change the
// result, so a stored result is only reusable under the same options.
func DocsHash(content []byte, opts docgen.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%t\x00%s\x00%s\x00%t\x00", opts.IncludeSyncEvents, opts.Marker, opts.Dialect.ScriptLang, opts.Dialect.TSX)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
