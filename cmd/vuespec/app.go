package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gnana997/vuespec/pkg/catalog"
	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/indexer"
	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/parser/queries"
	"github.com/gnana997/vuespec/pkg/render"
	"github.com/gnana997/vuespec/pkg/store"
	"github.com/gnana997/vuespec/pkg/util"
)

// newLogger writes text to an interactive stderr and JSON otherwise.
func newLogger(level string, debug bool, w io.Writer) *slog.Logger {
	cfg := util.DefaultLoggerConfig()
	cfg.Output = w
	cfg.Level = util.ParseLogLevel(level)
	if debug {
		cfg.Level = util.LevelDebug
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		cfg.Format = util.FormatText
	}
	return util.NewLogger(cfg)
}

// app wires the extraction stack for one command run.
type app struct {
	cfg     ProjectConfig
	logger  *slog.Logger
	pm      *parser.ParserManager
	qm      *queries.QueryManager
	engine  *docgen.Engine
	sources *util.SourceCache
	cache   *indexer.ResultCache
	store   *store.DocStore
	scanner *indexer.Scanner
}

func newApp(cfg ProjectConfig, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	a.pm = parser.NewParserManager(logger)
	a.qm = queries.NewQueryManager(a.pm, logger)
	a.engine = docgen.NewEngine(a.pm, a.qm, logger, cfg.docgenOptions())
	a.sources = util.NewSourceCache(logger)
	a.cache = indexer.NewResultCache(indexer.DefaultResultCacheConfig(), logger)

	if cfg.CachePath != "" {
		docStore, err := store.Open(cfg.CachePath, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = docStore
	}

	a.scanner = indexer.NewScanner(a.engine, a.cache, a.store, a.sources, logger)
	return a, nil
}

// Close releases every resource the app opened.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close doc store", "error", err)
		}
	}
	if a.sources != nil {
		_ = a.sources.Close()
	}
	if a.qm != nil {
		_ = a.qm.Close()
	}
	if a.pm != nil {
		_ = a.pm.Close()
	}
}

// extract runs a full scan of root.
func (a *app) extract(ctx context.Context, root string) ([]*indexer.FileDocs, *indexer.ScanStats, error) {
	return a.scanner.ExtractAll(ctx, root, a.cfg.scanConfig(), nil)
}

// buildCatalog assembles and validates the catalog of docs.
func (a *app) buildCatalog(root string, docs []*indexer.FileDocs) (*catalog.Catalog, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	cat := catalog.Build(a.cfg.catalogName(root), version, abs, indexer.ResultsByPath(docs))
	if errs := cat.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("catalog validation failed: %s", strings.Join(msgs, "; "))
	}
	return cat, nil
}

// writeCatalog writes cat to the configured catalog path.
func (a *app) writeCatalog(cat *catalog.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.CatalogPath), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return cat.WriteFile(a.cfg.CatalogPath)
}

// markdownPath maps a component's relative path to its document path.
func (a *app) markdownPath(relPath string) string {
	rel := strings.TrimSuffix(relPath, filepath.Ext(relPath)) + ".md"
	return filepath.Join(a.cfg.OutDir, filepath.FromSlash(rel))
}

// writeMarkdown writes the document of one component.
func (a *app) writeMarkdown(d *indexer.FileDocs) (string, error) {
	out := a.markdownPath(d.RelPath)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(d.RelPath), filepath.Ext(d.RelPath))
	doc := render.Document(name, d.Result, a.cfg.Columns)
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	return out, nil
}

// removeMarkdown deletes the document of a removed component.
func (a *app) removeMarkdown(relPath string) {
	out := a.markdownPath(relPath)
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		a.logger.Warn("failed to remove stale document", "path", out, "error", err)
	}
}
