package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/store"
	"github.com/gnana997/vuespec/pkg/util"
)

// Scanner extracts documentation from every component under a root.
//
// **Pipeline:**
//  1. File Discovery - walk the tree and match include/exclude globs
//  2. Parallel Extraction - parse files on a worker pool
//  3. Reuse - results are looked up in the memory cache, then the
//     persistent store, before a file is parsed
//
// **Usage:**
//
//	scanner := NewScanner(engine, cache, docStore, sources, logger)
//	docs, stats, err := scanner.ExtractAll(ctx, "/path/to/project", DefaultScanConfig(), nil)
type Scanner struct {
	engine  *docgen.Engine
	cache   *ResultCache
	store   *store.DocStore
	sources *util.SourceCache
	logger  *slog.Logger
}

// NewScanner creates a scanner. cache, docStore and sources may be nil;
// without sources files are read with os.ReadFile.
func NewScanner(
	engine *docgen.Engine,
	cache *ResultCache,
	docStore *store.DocStore,
	sources *util.SourceCache,
	logger *slog.Logger,
) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		engine:  engine,
		cache:   cache,
		store:   docStore,
		sources: sources,
		logger:  logger,
	}
}

// ExtractAll extracts every matching file under rootPath. One bad file
// never aborts the scan: failures are logged, counted and reported in the
// stats. The returned docs are ordered by relative path.
func (s *Scanner) ExtractAll(
	ctx context.Context,
	rootPath string,
	config ScanConfig,
	progressCallback ProgressCallback,
) ([]*FileDocs, *ScanStats, error) {
	startTime := time.Now()
	stats := &ScanStats{StartTime: startTime}

	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	s.logger.Info("Starting scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := DiscoverFiles(rootPath, config, s.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.logger.Debug("File discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	var docs []*FileDocs
	if len(files) == 0 {
		s.logger.Warn("No files found matching criteria", "root", rootPath)
	} else {
		extractStart := time.Now()
		docs, err = s.extractParallel(ctx, files, config.Workers, stats, progressCallback)
		if err != nil {
			return nil, nil, err
		}
		stats.ExtractTimeMs = time.Since(extractStart).Milliseconds()
	}

	for _, d := range docs {
		if rel, err := filepath.Rel(rootPath, d.Path); err == nil {
			d.RelPath = filepath.ToSlash(rel)
		} else {
			d.RelPath = filepath.ToSlash(d.Path)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].RelPath < docs[j].RelPath })

	if s.store != nil {
		if removed, err := s.store.Prune(files); err != nil {
			s.logger.Warn("Failed to prune doc store", "error", err)
		} else if removed > 0 {
			s.logger.Debug("Pruned stale store entries", "removed", removed)
		}
	}

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	s.logger.Info("Scan complete",
		"files_extracted", stats.FilesExtracted,
		"files_cached", stats.FilesCached,
		"files_skipped", stats.FilesSkipped,
		"files_failed", stats.FilesFailed,
		"duration_ms", stats.TotalTimeMs)

	return docs, stats, nil
}

// extractParallel runs files through a worker pool. The collector starts
// before jobs are submitted so a full jobs channel cannot deadlock.
func (s *Scanner) extractParallel(
	ctx context.Context,
	files []string,
	workers int,
	stats *ScanStats,
	progressCallback ProgressCallback,
) ([]*FileDocs, error) {
	total := len(files)
	pool := NewWorkerPool(workers, s, s.logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()
	defer pool.Stop()

	var docs []*FileDocs
	done := make(chan struct{})
	go func() {
		defer close(done)
		for finished := 0; finished < total; finished++ {
			var current string
			select {
			case <-ctx.Done():
				pool.Cancel()
				return

			case result := <-pool.Results():
				current = result.FilePath
				switch {
				case result.Docs == nil:
					stats.FilesSkipped++
				default:
					stats.FilesExtracted++
					if result.Docs.FromCache {
						stats.FilesCached++
					}
					docs = append(docs, result.Docs)
				}

			case fileErr := <-pool.Errors():
				current = fileErr.FilePath
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				s.logger.Warn("File extraction failed",
					"file", fileErr.FilePath,
					"error", fileErr.Error)
			}
			if progressCallback != nil {
				progressCallback(finished+1, total, current)
			}
		}
	}()

	for i, file := range files {
		if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
			<-done
			if ctx.Err() != nil {
				return nil, fmt.Errorf("scan cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("failed to submit job for %s: %w", file, err)
		}
	}
	pool.FinishSubmitting()

	<-done
	if ctx.Err() != nil {
		return nil, fmt.Errorf("scan cancelled: %w", ctx.Err())
	}
	return docs, nil
}

// Process extracts one file, serving it from the cache or the store when
// its content is unchanged. A script that declares no component yields nil
// docs and a nil error.
func (s *Scanner) Process(filePath string) (*FileDocs, error) {
	content, err := s.read(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	hash := DocsHash(content, s.engine.Options())

	if s.cache != nil {
		if cached, ok := s.cache.Get(filePath, hash); ok {
			if cached.Result == nil {
				return nil, nil
			}
			hit := *cached
			hit.FromCache = true
			return &hit, nil
		}
	}

	if s.store != nil {
		res, ok, err := s.store.Get(filePath, hash)
		if err != nil {
			s.logger.Warn("Doc store lookup failed", "file", filePath, "error", err)
		} else if ok {
			docs := &FileDocs{Path: filePath, Hash: hash, Result: res, Timestamp: time.Now().UnixMilli()}
			if s.cache != nil {
				s.cache.Add(docs)
			}
			hit := *docs
			hit.FromCache = true
			return &hit, nil
		}
	}

	res, err := s.engine.ParseSource(content, filePath)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	docs := &FileDocs{Path: filePath, Hash: hash, Result: res, Timestamp: time.Now().UnixMilli()}
	if isScriptFile(filePath) && res.IsEmpty() {
		docs.Result = nil
	}

	if s.cache != nil {
		s.cache.Add(docs)
	}
	if docs.Result == nil {
		return nil, nil
	}
	if s.store != nil {
		if err := s.store.Put(filePath, hash, res); err != nil {
			s.logger.Warn("Failed to persist docs", "file", filePath, "error", err)
		}
	}
	copied := *docs
	return &copied, nil
}

// Forget drops every cached form of filePath.
func (s *Scanner) Forget(filePath string) {
	if s.sources != nil {
		s.sources.Invalidate(filePath)
	}
	if s.cache != nil {
		s.cache.Remove(filePath)
	}
	if s.store != nil {
		if err := s.store.Delete(filePath); err != nil {
			s.logger.Warn("Failed to delete stored docs", "file", filePath, "error", err)
		}
	}
}

func (s *Scanner) read(filePath string) ([]byte, error) {
	if s.sources != nil {
		return s.sources.Read(filePath)
	}
	return os.ReadFile(filePath)
}

// DiscoverFiles walks rootPath and returns the absolute paths of the files
// matching config, in lexical order. Excluded directories are not entered.
func DiscoverFiles(rootPath string, config ScanConfig, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, pattern := range config.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range config.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", rootPath)
	}

	var files []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if matchesAny(config.Exclude, relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if len(config.Include) > 0 && !matchesAny(config.Include, relPath) {
			return nil
		}
		if parser.DetectLanguage(path) == parser.LanguageUnknown {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
	}
	return false
}

// isScriptFile reports whether path is a plain script rather than a
// single-file component.
func isScriptFile(path string) bool {
	switch parser.DetectLanguage(path) {
	case parser.LanguageJavaScript, parser.LanguageTypeScript:
		return true
	}
	return false
}

// ResultsByPath keys extraction results by relative path, the form
// catalog.Build takes.
func ResultsByPath(docs []*FileDocs) map[string]*docgen.Result {
	out := make(map[string]*docgen.Result, len(docs))
	for _, d := range docs {
		if d.Result != nil {
			out[d.RelPath] = d.Result
		}
	}
	return out
}
