package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/vuespec/pkg/catalog"
	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/mcplog"
	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/parser/queries"
	"github.com/gnana997/vuespec/pkg/util"
)

// --- helpers ---

func testCatalog() *catalog.QueryService {
	cat := catalog.Build("test", "1.0", "/src", map[string]*docgen.Result{
		"actions/Button.vue": {
			Component: docgen.Component{Name: "MyButton", Description: []string{"A clickable button"}, Style: "object"},
			Props:     []docgen.Property{{Name: "variant", Type: docgen.LiteralType("String")}},
			Events:    []docgen.Event{{Name: "click"}},
		},
		"overlay/Dialog.vue": {
			Component: docgen.Component{Description: []string{"A modal dialog overlay"}},
			Props:     []docgen.Property{{Name: "visible", Type: docgen.LiteralType("Boolean")}},
			Slots:     []docgen.Slot{{Name: "footer", Origin: docgen.OriginTemplate, Bindings: map[string]string{}}},
		},
	})
	return catalog.NewQueryService(cat, cat.BuildIndex())
}

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := util.NewDiscardLogger()
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	engine := docgen.NewEngine(pm, qm, logger, docgen.DefaultOptions())
	return NewServer(testCatalog(), engine, nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "list_categories":
		handler = s.handleListCategories
	case "list_components":
		handler = s.handleListComponents
	case "get_component_docs":
		handler = s.handleGetComponentDocs
	case "search_components":
		handler = s.handleSearchComponents
	case "parse_component":
		handler = s.handleParseComponent
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- list_categories ---

func TestHandleListCategories(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_categories", nil))
	assert.False(t, result.IsError)

	var cats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "actions", cats[0]["name"])
	assert.Equal(t, float64(1), cats[0]["component_count"])
}

// --- list_components ---

func TestHandleListComponents(t *testing.T) {
	s := testServer(t)

	cases := []struct {
		name  string
		args  map[string]any
		names []string
	}{
		{"no filter", nil, []string{"MyButton", "Dialog"}},
		{"by category", map[string]any{"category": "overlay"}, []string{"Dialog"}},
		{"by keyword", map[string]any{"keyword": "clickable"}, []string{"MyButton"}},
		{"no match", map[string]any{"keyword": "zzz"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("list_components", tc.args))
			assert.False(t, result.IsError)

			var comps []map[string]any
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
			got := make([]string, 0, len(comps))
			for _, c := range comps {
				got = append(got, c["name"].(string))
			}
			assert.Equal(t, tc.names, got)
		})
	}
}

// --- get_component_docs ---

func TestHandleGetComponentDocs_JSON(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_docs", map[string]any{
		"names": []any{"MyButton", "overlay/Dialog.vue", "Missing"},
	}))
	assert.False(t, result.IsError)

	var out struct {
		Components []struct {
			Name string         `json:"name"`
			Path string         `json:"path"`
			Docs *docgen.Result `json:"docs"`
		} `json:"components"`
		NotFound []string `json:"not_found"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out.Components, 2)
	assert.Equal(t, "MyButton", out.Components[0].Name)
	assert.Equal(t, docgen.LiteralType("String"), out.Components[0].Docs.Props[0].Type)
	assert.Equal(t, "Dialog", out.Components[1].Name)
	assert.Equal(t, []string{"Missing"}, out.NotFound)
}

func TestHandleGetComponentDocs_Markdown(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_docs", map[string]any{
		"names":  []any{"MyButton"},
		"format": "markdown",
	}))
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "# MyButton")
	assert.Contains(t, text, "## Props")
	assert.Contains(t, text, "|variant|")
	assert.Contains(t, text, "## Events")
}

func TestHandleGetComponentDocs_Errors(t *testing.T) {
	s := testServer(t)

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing names", nil},
		{"empty names", map[string]any{"names": []any{}}},
		{"unknown component", map[string]any{"names": []any{"Nope"}}},
		{"bad format", map[string]any{"names": []any{"MyButton"}, "format": "yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("get_component_docs", tc.args))
			assert.True(t, result.IsError)
		})
	}
}

// --- search_components ---

func TestHandleSearchComponents(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "footer"}))
	assert.False(t, result.IsError)

	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Dialog", hits[0]["name"])
	assert.Equal(t, "slot:footer", hits[0]["match_reason"])
}

func TestHandleSearchComponents_EmptyQuery(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "  "}))
	assert.True(t, result.IsError)
}

// --- parse_component ---

const draftComponent = `<template>
  <div><slot name="header"></slot></div>
</template>

<script>
export default {
  name: 'Draft',
  props: ['title']
}
</script>
`

func TestHandleParseComponent(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("parse_component", map[string]any{
		"source":   draftComponent,
		"filename": "Draft.vue",
	}))
	require.False(t, result.IsError, resultText(t, result))

	var res docgen.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
	assert.Equal(t, "Draft", res.Component.Name)
	require.Len(t, res.Props, 1)
	assert.Equal(t, "title", res.Props[0].Name)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, "header", res.Slots[0].Name)
}

func TestHandleParseComponent_Markdown(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("parse_component", map[string]any{
		"source":   "export default { props: ['size'] }",
		"filename": "widgets/Sized.js",
		"format":   "markdown",
	}))
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "# Sized")
}

func TestHandleParseComponent_Errors(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("parse_component", nil))
	assert.True(t, result.IsError)

	result = callTool(t, s, makeRequest("parse_component", map[string]any{
		"source":   "body { color: red }",
		"filename": "style.css",
	}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unsupported file type")

	noEngine := NewServer(testCatalog(), nil, nil)
	result = callTool(t, noEngine, makeRequest("parse_component", map[string]any{"source": draftComponent}))
	assert.True(t, result.IsError)
}

// --- server ---

func TestReload(t *testing.T) {
	s := testServer(t)

	cat := catalog.Build("next", "2.0", "/src", map[string]*docgen.Result{
		"Only.vue": {Component: docgen.Component{Name: "Only"}},
	})
	s.Reload(catalog.NewQueryService(cat, cat.BuildIndex()))

	result := callTool(t, s, makeRequest("list_components", nil))
	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
	require.Len(t, comps, 1)
	assert.Equal(t, "Only", comps[0]["name"])
}

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s := NewServer(testCatalog(), nil, logger)
	handler := s.loggingMiddleware()(s.handleGetComponentDocs)

	_, err = handler(context.Background(), makeRequest("get_component_docs", map[string]any{"names": []any{"MyButton"}}))
	require.NoError(t, err)
	_, err = handler(context.Background(), makeRequest("get_component_docs", map[string]any{"names": []any{"Nope"}}))
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	entries, err := mcplog.ReadEntries(bufio.NewReader(f))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "get_component_docs", entries[0].Tool)
	assert.Nil(t, entries[0].Error)
	assert.Positive(t, entries[0].ResponseBytes)
	require.NotNil(t, entries[1].Error)
	assert.Contains(t, *entries[1].Error, "no component found")
}
