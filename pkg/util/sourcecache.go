// SourceCache provides component source access through memory-mapped files.
//
// A scan reads every discovered component once for splitting and once more
// when a caller asks for a snippet (the inspect command, the MCP
// parse_component tool). Mapping the file once and slicing it avoids
// re-reading large single-file components.
//
// **Lifecycle:**
//   - Lazy loading: files are mapped on first access
//   - Invalidate drops one mapping (the watcher calls it before re-reading)
//   - Close unmaps everything
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
)

// SourceCacheStats tracks cache performance metrics.
type SourceCacheStats struct {
	FilesCached  int
	CacheHits    int64
	CacheMisses  int64
	MmapFailures int64
}

// mappedSource is one cached file. data aliases region when the file was
// mapped and is a heap copy when mapping failed or the file is empty.
type mappedSource struct {
	region mmap.MMap
	file   *os.File
	data   []byte
}

func (m *mappedSource) close() error {
	var err error
	if m.region != nil {
		err = m.region.Unmap()
	}
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// SourceCache is safe for concurrent use.
type SourceCache struct {
	mu     sync.RWMutex
	files  map[string]*mappedSource
	logger *slog.Logger

	hits         atomic.Int64
	misses       atomic.Int64
	mmapFailures atomic.Int64
}

// NewSourceCache creates an empty cache. logger may be nil.
func NewSourceCache(logger *slog.Logger) *SourceCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceCache{
		files:  make(map[string]*mappedSource),
		logger: logger,
	}
}

// Read returns a private copy of the file contents. The copy stays valid
// after Invalidate or Close, which matters because tree-sitter nodes keep
// referring to the buffer they were parsed from.
func (sc *SourceCache) Read(filePath string) ([]byte, error) {
	src, err := sc.get(filePath)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(src.data))
	copy(out, src.data)
	return out, nil
}

// Slice returns the text between startByte (inclusive) and endByte
// (exclusive) of filePath.
func (sc *SourceCache) Slice(filePath string, startByte, endByte uint) (string, error) {
	src, err := sc.get(filePath)
	if err != nil {
		return "", err
	}
	if endByte <= startByte || endByte > uint(len(src.data)) {
		return "", fmt.Errorf("invalid byte range [%d, %d) for %s (size %d)", startByte, endByte, filePath, len(src.data))
	}
	return string(src.data[startByte:endByte]), nil
}

// Invalidate drops the mapping for filePath so the next Read sees fresh
// contents.
func (sc *SourceCache) Invalidate(filePath string) {
	sc.mu.Lock()
	src, ok := sc.files[filePath]
	delete(sc.files, filePath)
	sc.mu.Unlock()

	if ok {
		if err := src.close(); err != nil {
			sc.logger.Warn("failed to release cached source", "file", filePath, "error", err)
		}
	}
}

// Stats returns current cache metrics.
func (sc *SourceCache) Stats() SourceCacheStats {
	sc.mu.RLock()
	n := len(sc.files)
	sc.mu.RUnlock()

	return SourceCacheStats{
		FilesCached:  n,
		CacheHits:    sc.hits.Load(),
		CacheMisses:  sc.misses.Load(),
		MmapFailures: sc.mmapFailures.Load(),
	}
}

// Close unmaps all files. The cache is empty but usable afterwards.
func (sc *SourceCache) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var firstErr error
	for path, src := range sc.files {
		if err := src.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to unmap %s: %w", path, err)
		}
	}
	sc.files = make(map[string]*mappedSource)
	return firstErr
}

func (sc *SourceCache) get(filePath string) (*mappedSource, error) {
	sc.mu.RLock()
	src, ok := sc.files[filePath]
	sc.mu.RUnlock()
	if ok {
		sc.hits.Add(1)
		return src, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if src, ok = sc.files[filePath]; ok {
		sc.hits.Add(1)
		return src, nil
	}
	sc.misses.Add(1)

	src, err := sc.load(filePath)
	if err != nil {
		return nil, err
	}
	sc.files[filePath] = src
	return src, nil
}

func (sc *SourceCache) load(filePath string) (*mappedSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	// mmap of a zero-length file fails on most platforms.
	if info.Size() == 0 {
		_ = f.Close()
		return &mappedSource{data: []byte{}}, nil
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		sc.mmapFailures.Add(1)
		_ = f.Close()
		sc.logger.Debug("mmap failed, falling back to read", "file", filePath, "error", err)

		data, rerr := os.ReadFile(filePath)
		if rerr != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, rerr)
		}
		return &mappedSource{data: data}, nil
	}

	return &mappedSource{region: region, file: f, data: region}, nil
}
