package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/vuespec/pkg/catalog"
	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/render"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

type categorySummary struct {
	Name           string `json:"name"`
	ComponentCount int    `json:"component_count"`
}

type componentSummary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type searchHit struct {
	componentSummary
	MatchReason string `json:"match_reason"`
}

func summarize(c *catalog.Component) componentSummary {
	return componentSummary{
		Name:        c.Name,
		Path:        c.Path,
		Category:    c.Category,
		Description: c.Description(),
	}
}

func (s *Server) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs, _ := s.snapshot()
	cats := qs.ListCategories()
	out := make([]categorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, categorySummary{Name: c.Name, ComponentCount: len(c.Components)})
	}
	return jsonResult(out)
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs, _ := s.snapshot()
	comps := qs.ListComponents(req.GetString("category", ""), req.GetString("keyword", ""))
	out := make([]componentSummary, 0, len(comps))
	for i := range comps {
		out = append(out, summarize(&comps[i]))
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponentDocs(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := req.RequireStringSlice("names")
	if err != nil || len(names) == 0 {
		return mcp.NewToolResultError("names is required: pass at least one component name or path"), nil
	}
	format, err := outputFormat(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	qs, renderOpts := s.snapshot()
	var found []*catalog.Component
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		comp, ok := qs.GetComponent(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if seen[comp.Path] {
			continue
		}
		seen[comp.Path] = true
		found = append(found, comp)
	}
	if len(found) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no component found for %s; use list_components or search_components to find names",
			strings.Join(missing, ", "))), nil
	}

	if format == formatMarkdown {
		var sb strings.Builder
		for i, comp := range found {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(render.Document(comp.Name, comp.Docs, renderOpts))
		}
		if len(missing) > 0 {
			fmt.Fprintf(&sb, "\nNot found: %s\n", strings.Join(missing, ", "))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	type componentDocs struct {
		Name     string         `json:"name"`
		Path     string         `json:"path"`
		Category string         `json:"category,omitempty"`
		Docs     *docgen.Result `json:"docs"`
	}
	out := struct {
		Components []componentDocs `json:"components"`
		NotFound   []string        `json:"not_found,omitempty"`
	}{NotFound: missing}
	for _, comp := range found {
		out.Components = append(out.Components, componentDocs{
			Name:     comp.Name,
			Path:     comp.Path,
			Category: comp.Category,
			Docs:     comp.Docs,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	qs, _ := s.snapshot()
	results := qs.SearchComponents(strings.TrimSpace(query))
	out := make([]searchHit, 0, len(results))
	for _, r := range results {
		out = append(out, searchHit{componentSummary: summarize(r.Component), MatchReason: r.MatchReason})
	}
	return jsonResult(out)
}

func (s *Server) handleParseComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.engine == nil {
		return mcp.NewToolResultError("parse_component is not available: the server was started without a parser"), nil
	}
	source, err := req.RequireString("source")
	if err != nil || source == "" {
		return mcp.NewToolResultError("source is required"), nil
	}
	format, err := outputFormat(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := req.GetString("filename", "Component.vue")

	res, err := s.engine.ParseSource([]byte(source), filename)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse %s: %v", filename, err)), nil
	}

	if format == formatMarkdown {
		_, renderOpts := s.snapshot()
		name := res.Component.Name
		if name == "" {
			base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
			name = strings.TrimSuffix(base, path.Ext(base))
		}
		return mcp.NewToolResultText(render.Document(name, res, renderOpts)), nil
	}
	return jsonResult(res)
}

func outputFormat(req mcp.CallToolRequest) (string, error) {
	format := strings.ToLower(req.GetString("format", formatJSON))
	switch format {
	case formatJSON, formatMarkdown:
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q: use %q or %q", format, formatJSON, formatMarkdown)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
