package catalog

import "strings"

// ComponentSearchResult holds a component match with the reason it matched.
type ComponentSearchResult struct {
	Component   *Component
	MatchReason string
}

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// LoadAndQueryBytes loads a catalog from raw JSON bytes and returns a ready-to-use QueryService.
func LoadAndQueryBytes(data []byte) (*QueryService, error) {
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListCategories returns all categories in the catalog.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListComponents returns components filtered by category and/or keyword.
// Both filters are optional (pass "" to skip). When both are provided, they combine with AND logic.
// The keyword matches case-insensitively against component Name and Description.
func (q *QueryService) ListComponents(category, keyword string) []Component {
	var candidates []*Component

	if category != "" {
		candidates = q.Index.ComponentsByCategory[category]
	} else {
		candidates = make([]*Component, 0, len(q.Catalog.Components))
		for i := range q.Catalog.Components {
			candidates = append(candidates, &q.Catalog.Components[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Component, 0)

	for _, comp := range candidates {
		if keyword != "" {
			nameLower := strings.ToLower(comp.Name)
			descLower := strings.ToLower(comp.Description())
			if !strings.Contains(nameLower, keyword) && !strings.Contains(descLower, keyword) {
				continue
			}
		}
		result = append(result, *comp)
	}

	return result
}

// GetComponent looks up a component by name, falling back to its relative
// source path. The bool indicates whether the component was found.
func (q *QueryService) GetComponent(name string) (*Component, bool) {
	if comp, ok := q.Index.ComponentByName[name]; ok {
		return comp, true
	}
	if comp, ok := q.Index.ComponentByPath[name]; ok {
		return comp, true
	}
	return nil, false
}

// GetComponentsByNames returns components matching the given names.
// Unknown names are silently skipped. Duplicates are removed.
func (q *QueryService) GetComponentsByNames(names []string) []*Component {
	seen := make(map[string]bool, len(names))
	result := make([]*Component, 0, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if comp, ok := q.Index.ComponentByName[name]; ok {
			result = append(result, comp)
		}
	}

	return result
}

// SearchComponents performs a case-insensitive search across component
// names, descriptions, and the names of props, events and slots.
// Returns matching components with the reason for the match.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if reason := matchReason(comp, query); reason != "" {
			results = append(results, ComponentSearchResult{Component: comp, MatchReason: reason})
		}
	}
	return results
}

// matchReason returns why comp matches query, or "" when it does not.
func matchReason(comp *Component, query string) string {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	}

	if contains(comp.Name) {
		return "name"
	}
	if contains(comp.Description()) {
		return "description"
	}
	if comp.Docs == nil {
		return ""
	}
	for _, p := range comp.Docs.Props {
		if contains(p.Name) {
			return "prop:" + p.Name
		}
	}
	for _, ev := range comp.Docs.Events {
		if contains(ev.Name) {
			return "event:" + ev.Name
		}
	}
	for _, s := range comp.Docs.Slots {
		if contains(s.Name) {
			return "slot:" + s.Name
		}
	}
	return ""
}
