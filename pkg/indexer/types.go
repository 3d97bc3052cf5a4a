package indexer

import (
	"time"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// FileDocs is the extraction result for one component file, the unit the
// cache and the store hold.
type FileDocs struct {
	// Path is the absolute path to the file
	Path string

	// RelPath is Path relative to the scan root, slash-separated
	RelPath string

	// Hash identifies the content and the options it was extracted with
	Hash string

	Result *docgen.Result

	// FromCache is set when the result was not parsed in this run
	FromCache bool

	// Timestamp when the file was extracted (Unix milliseconds)
	Timestamp int64
}

// ResultCacheConfig configures the in-memory result cache.
type ResultCacheConfig struct {
	// MaxCachedFiles is the maximum number of results kept in memory.
	// Default: 1000 files
	MaxCachedFiles int

	// Debug enables eviction logging
	Debug bool
}

// DefaultResultCacheConfig returns the default configuration.
func DefaultResultCacheConfig() ResultCacheConfig {
	return ResultCacheConfig{
		MaxCachedFiles: 1000,
	}
}

// ResultCacheStats provides statistics about the cache state.
type ResultCacheStats struct {
	CachedFiles  int
	CacheHits    int64
	CacheMisses  int64
	CacheHitRate float64
	Evictions    int64
}

// ScanConfig selects the files a scan visits. Patterns use doublestar
// syntax and are matched against slash-separated paths relative to the
// scan root.
type ScanConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// Workers is the extraction worker count, 0 for the pool default
	Workers int `yaml:"workers"`
}

// DefaultScanConfig returns the stock patterns.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.vue",
			"**/*.js",
			"**/*.ts",
		},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"**/*.d.ts",
			"**/*.spec.*",
			"**/*.test.*",
		},
	}
}

// ScanStats contains statistics about a scan.
type ScanStats struct {
	// FilesDiscovered is the total number of files found
	FilesDiscovered int

	// FilesExtracted is the number of files that produced documentation
	FilesExtracted int

	// FilesCached is the part of FilesExtracted served without parsing
	FilesCached int

	// FilesSkipped counts scripts that turned out not to be components
	FilesSkipped int

	// FilesFailed is the number of files that could not be read or parsed
	FilesFailed int

	TotalTimeMs     int64
	DiscoveryTimeMs int64
	ExtractTimeMs   int64

	// WorkerCount is the number of workers used
	WorkerCount int

	// Errors contains per-file errors (if any)
	Errors []FileError

	StartTime time.Time
	EndTime   time.Time
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is called after each file of a scan.
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are doublestar patterns for editor and temp files
	IgnorePatterns []string
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"**/*.swp",
			"**/*.tmp",
			"**/*~",
		},
	}
}

// ChangeKind classifies a watcher notification.
type ChangeKind int

const (
	// ChangeUpdated means the file was created or rewritten
	ChangeUpdated ChangeKind = iota
	// ChangeRemoved means the file was deleted or renamed away
	ChangeRemoved
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "updated"
}

// Change is delivered to the watcher callback after a file settles.
// Docs is nil for removals and for scripts that are not components.
type Change struct {
	Kind    ChangeKind
	Path    string
	RelPath string
	Docs    *FileDocs
}

// ChangeHandler receives watcher notifications. It is called from the
// watcher's timer goroutines and must be safe for concurrent use.
type ChangeHandler func(Change)
