// Package catalog stores the documentation of every component found under a
// project root as one JSON document, and answers lookups over it.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// Catalog holds the documentation of a component library.
type Catalog struct {
	Name       string      `json:"name"`
	Version    string      `json:"version"`
	Root       string      `json:"root"`
	Components []Component `json:"components"`
	Categories []Category  `json:"categories"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromFile after validation passes.
type CatalogIndex struct {
	// ComponentByName maps component name -> *Component.
	ComponentByName map[string]*Component

	// ComponentByPath maps relative source path -> *Component.
	ComponentByPath map[string]*Component

	// CategoryByName maps category name -> *Category.
	CategoryByName map[string]*Category

	// ComponentsByCategory maps category name -> []*Component.
	ComponentsByCategory map[string][]*Component
}

// Build assembles a catalog from extraction results keyed by path relative
// to root. Components are ordered by path and grouped by directory.
// Components without a declared name are named after their file; an
// index file takes its directory's name. Names that still collide are
// qualified with their directory.
func Build(name, version, root string, results map[string]*docgen.Result) *Catalog {
	paths := make([]string, 0, len(results))
	for p := range results {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	cat := &Catalog{Name: name, Version: version, Root: root}
	used := make(map[string]bool, len(paths))
	byCategory := make(map[string][]string)
	var categories []string

	for _, p := range paths {
		res := results[p]
		slashed := strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, `\`, "/")), "./")
		dir := path.Dir(slashed)
		if dir == "." {
			dir = ""
		}

		compName := componentName(slashed, res)
		if used[compName] {
			compName = strings.TrimSuffix(slashed, path.Ext(slashed))
		}
		used[compName] = true

		cat.Components = append(cat.Components, Component{
			Name:     compName,
			Path:     slashed,
			Category: dir,
			Docs:     res,
		})
		if dir == "" {
			continue
		}
		if _, ok := byCategory[dir]; !ok {
			categories = append(categories, dir)
		}
		byCategory[dir] = append(byCategory[dir], compName)
	}

	for _, c := range categories {
		cat.Categories = append(cat.Categories, Category{Name: c, Components: byCategory[c]})
	}
	return cat
}

func componentName(slashed string, res *docgen.Result) string {
	if res != nil && res.Component.Name != "" {
		return res.Component.Name
	}
	base := path.Base(slashed)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "index" {
		if dir := path.Base(path.Dir(slashed)); dir != "." && dir != "/" {
			return dir
		}
	}
	return base
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	// Required catalog-level fields.
	if c.Name == "" {
		errs = append(errs, fmt.Errorf("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalog version is required"))
	}

	componentNames := make(map[string]bool, len(c.Components))
	componentPaths := make(map[string]bool, len(c.Components))
	categoryNames := make(map[string]bool, len(c.Categories))

	for i, cat := range c.Categories {
		if cat.Name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
			continue
		}
		if categoryNames[cat.Name] {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate category name %q", i, cat.Name))
			continue
		}
		categoryNames[cat.Name] = true
	}

	for i, comp := range c.Components {
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		if comp.Path == "" {
			errs = append(errs, fmt.Errorf("component %q: path is required", comp.Name))
		} else if componentPaths[comp.Path] {
			errs = append(errs, fmt.Errorf("component %q: duplicate path %q", comp.Name, comp.Path))
		}
		componentPaths[comp.Path] = true

		if comp.Docs == nil {
			errs = append(errs, fmt.Errorf("component %q: docs are required", comp.Name))
		}
		if componentNames[comp.Name] {
			errs = append(errs, fmt.Errorf("component %q: duplicate component name", comp.Name))
			continue
		}
		componentNames[comp.Name] = true

		if comp.Category != "" && !categoryNames[comp.Category] {
			errs = append(errs, fmt.Errorf("component %q: references unknown category %q", comp.Name, comp.Category))
		}
	}

	// Cross-reference: each component listed in a category must exist.
	for _, cat := range c.Categories {
		for _, compName := range cat.Components {
			if !componentNames[compName] {
				errs = append(errs, fmt.Errorf("category %q: references non-existent component %q", cat.Name, compName))
			}
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentByName:      make(map[string]*Component, len(c.Components)),
		ComponentByPath:      make(map[string]*Component, len(c.Components)),
		CategoryByName:       make(map[string]*Category, len(c.Categories)),
		ComponentsByCategory: make(map[string][]*Component),
	}

	for i := range c.Categories {
		idx.CategoryByName[c.Categories[i].Name] = &c.Categories[i]
	}

	for i := range c.Components {
		comp := &c.Components[i]
		idx.ComponentByName[comp.Name] = comp
		idx.ComponentByPath[comp.Path] = comp
		idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
	}

	return idx
}

// WriteFile writes the catalog as indented JSON.
func (c *Catalog) WriteFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// LoadFromFile loads a catalog from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	index := catalog.BuildIndex()
	return &catalog, index, nil
}
