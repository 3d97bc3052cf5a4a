package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/indexer"
	"github.com/gnana997/vuespec/pkg/render"
)

const defaultConfigPath = ".vuespec/config.yaml"

// ProjectConfig holds the contents of .vuespec/config.yaml.
type ProjectConfig struct {
	// Name labels the catalog, the root directory's name when empty
	Name              string         `yaml:"name"`
	Include           []string       `yaml:"include"`
	Exclude           []string       `yaml:"exclude"`
	IncludeSyncEvents bool           `yaml:"include_sync_events"`
	Marker            string         `yaml:"marker"`
	Dialect           docgen.Dialect `yaml:"dialect"`
	CatalogPath       string         `yaml:"catalog_path"`
	CachePath         string         `yaml:"cache_path"`
	OutDir            string         `yaml:"out_dir"`
	Workers           int            `yaml:"workers"`
	LogLevel          string         `yaml:"log_level"`
	Columns           render.Options `yaml:"columns"`
}

// defaultProjectConfig returns the settings used when neither the config
// file nor a flag says otherwise.
func defaultProjectConfig() ProjectConfig {
	scan := indexer.DefaultScanConfig()
	return ProjectConfig{
		Include:     scan.Include,
		Exclude:     scan.Exclude,
		Marker:      docgen.DefaultMarker,
		CatalogPath: ".vuespec/catalog.json",
		CachePath:   ".vuespec/cache.db",
		OutDir:      "docs/components",
		LogLevel:    "info",
		Columns:     render.DefaultOptions(),
	}
}

// loadProjectConfig reads the config file at path over the defaults. A
// missing file is not an error unless required is set.
func loadProjectConfig(path string, required bool) (ProjectConfig, error) {
	cfg := defaultProjectConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// projectFlags are the flags shared by the commands that scan a project.
type projectFlags struct {
	include     []string
	exclude     []string
	syncEvents  bool
	marker      string
	scriptLang  string
	catalogPath string
	cachePath   string
	noCache     bool
	outDir      string
	workers     int
	name        string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.include, "include", nil, "doublestar patterns of files to document (repeatable)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "doublestar patterns to skip (repeatable)")
	fs.BoolVar(&f.syncEvents, "sync-events", false, "keep update:<prop> events in the output")
	fs.StringVar(&f.marker, "marker", "", "doc-comment tag that opts members in (default \"vuese\")")
	fs.StringVar(&f.scriptLang, "script-lang", "", "force the script language: js, ts or tsx")
	fs.StringVar(&f.catalogPath, "catalog", "", "catalog file (default \".vuespec/catalog.json\")")
	fs.StringVar(&f.cachePath, "cache", "", "result cache database (default \".vuespec/cache.db\")")
	fs.BoolVar(&f.noCache, "no-cache", false, "parse every file, ignoring the cache database")
	fs.StringVar(&f.outDir, "out", "", "markdown output directory (default \"docs/components\")")
	fs.IntVar(&f.workers, "workers", 0, "extraction workers, 0 for one per parser")
	fs.StringVar(&f.name, "name", "", "catalog name (default: the root directory name)")
}

// apply overlays the flags the user actually set onto cfg.
func (f *projectFlags) apply(cmd *cobra.Command, cfg *ProjectConfig) {
	fs := cmd.Flags()
	if fs.Changed("include") {
		cfg.Include = f.include
	}
	if fs.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if fs.Changed("sync-events") {
		cfg.IncludeSyncEvents = f.syncEvents
	}
	if fs.Changed("marker") {
		cfg.Marker = f.marker
	}
	if fs.Changed("script-lang") {
		cfg.Dialect.ScriptLang = f.scriptLang
		cfg.Dialect.TSX = f.scriptLang == "tsx"
	}
	if fs.Changed("catalog") {
		cfg.CatalogPath = f.catalogPath
	}
	if fs.Changed("cache") {
		cfg.CachePath = f.cachePath
	}
	if f.noCache {
		cfg.CachePath = ""
	}
	if fs.Changed("out") {
		cfg.OutDir = f.outDir
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("name") {
		cfg.Name = f.name
	}
}

// docgenOptions returns the extraction options of cfg.
func (c ProjectConfig) docgenOptions() docgen.Options {
	return docgen.Options{
		IncludeSyncEvents: c.IncludeSyncEvents,
		Marker:            c.Marker,
		Dialect:           c.Dialect,
	}
}

// scanConfig returns the discovery settings of cfg.
func (c ProjectConfig) scanConfig() indexer.ScanConfig {
	return indexer.ScanConfig{
		Include: c.Include,
		Exclude: c.Exclude,
		Workers: c.Workers,
	}
}

// catalogName returns the configured name or the base name of root.
func (c ProjectConfig) catalogName(root string) string {
	if c.Name != "" {
		return c.Name
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}
