// Package queries provides tree-sitter query compilation, caching, and execution.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/parser/queries/component"
	"github.com/gnana997/vuespec/pkg/parser/queries/imports"
)

// QueryType identifies which query to execute.
type QueryType int

const (
	// QueryTypeComponent locates the default-exported component definition
	QueryTypeComponent QueryType = iota
	// QueryTypeImports maps local import bindings to module specifiers
	QueryTypeImports
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeComponent:
		return "component"
	case QueryTypeImports:
		return "imports"
	default:
		return "unknown"
	}
}

// queryKey uniquely identifies a compiled query. TSX is part of the key
// because a query compiled for one grammar cannot run on another grammar's
// trees.
type queryKey struct {
	lang  parser.Language
	isTSX bool
	qtype QueryType
}

// QueryManager manages tree-sitter query compilation and caching.
//
// Queries are compiled lazily on first use and freed by Close. QueryManager
// is safe for concurrent use; compiled queries are shared, cursors are not.
//
// Usage:
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	query, err := qm.GetQuery(parser.LanguageJavaScript, false, QueryTypeImports)
//	if err != nil {
//	    return err
//	}
//	matches, err := qm.ExecuteQuery(tree.RootNode(), query, source)
type QueryManager struct {
	parserManager *parser.ParserManager
	cache         map[queryKey]*ts.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewQueryManager creates a new query manager. The parser manager supplies
// the grammars queries are compiled against. logger may be nil.
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryManager{
		parserManager: pm,
		cache:         make(map[queryKey]*ts.Query),
		logger:        logger,
	}
}

// GetQuery returns a compiled query for the given script grammar.
//
// Returns an error if the language has no script queries (HTML, unknown) or
// the query fails to compile.
func (qm *QueryManager) GetQuery(lang parser.Language, isTSX bool, qtype QueryType) (*ts.Query, error) {
	key := queryKey{lang: lang, isTSX: isTSX && lang == parser.LanguageTypeScript, qtype: qtype}

	qm.mutex.RLock()
	query, exists := qm.cache[key]
	qm.mutex.RUnlock()
	if exists {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	if query, exists = qm.cache[key]; exists {
		return query, nil
	}

	queryString, err := getQueryString(lang, qtype)
	if err != nil {
		return nil, err
	}

	langPtr, err := qm.parserManager.GetLanguagePointer(lang, key.isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", qtype, lang, qerr.Message)
	}

	qm.cache[key] = query

	qm.logger.Debug("compiled query",
		"language", lang.String(),
		"isTSX", key.isTSX,
		"type", qtype.String())

	return query, nil
}

// getQueryString returns the query source for a language and type.
func getQueryString(lang parser.Language, qtype QueryType) (string, error) {
	if lang != parser.LanguageJavaScript && lang != parser.LanguageTypeScript {
		return "", fmt.Errorf("unsupported language for %s queries: %s", qtype, lang)
	}

	switch qtype {
	case QueryTypeComponent:
		return component.Queries, nil
	case QueryTypeImports:
		return imports.Queries, nil
	default:
		return "", fmt.Errorf("unknown query type: %d", qtype)
	}
}

// ExecuteQuery runs a compiled query over node's subtree and returns the
// matches in document order.
func (qm *QueryManager) ExecuteQuery(node *ts.Node, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if node == nil {
		return nil, fmt.Errorf("node is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, node, source)
	captureNames := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []QueryCapture
		for _, capture := range match.Captures {
			var captureName string
			if int(capture.Index) < len(captureNames) {
				captureName = captureNames[capture.Index]
			}
			// "_"-prefixed captures only feed predicates
			if strings.HasPrefix(captureName, "_") {
				continue
			}

			category, field := parseCaptureName(captureName)
			node := capture.Node
			captures = append(captures, QueryCapture{
				Name:     captureName,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
				Location: nodeLocation(&node),
			})
		}

		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	return matches, nil
}

// Close releases all compiled queries. The manager must not be used
// afterwards.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	qm.logger.Debug("closing QueryManager",
		"queries_compiled", len(qm.cache))

	for key, query := range qm.cache {
		if query != nil {
			query.Close()
		}
		delete(qm.cache, key)
	}

	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []QueryCapture
}

// Capture returns the first capture named name, or nil.
func (m QueryMatch) Capture(name string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Name == name {
			return &m.Captures[i]
		}
	}
	return nil
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name (e.g. "import.default")
	Name string

	// Category is the part before the first dot ("import")
	Category string

	// Field is the rest ("default"), empty when the name has no dot
	Field string

	Node     *ts.Node
	Text     string
	Location Location
}

// Location represents a position in source code.
type Location struct {
	StartLine   uint32 // 1-based line number
	StartColumn uint32 // 1-based column number
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32 // 0-based byte offset
	EndByte     uint32
}

// parseCaptureName splits "import.default" into ("import", "default").
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}

// nodeLocation converts tree-sitter's 0-based points to 1-based
// line/column numbers.
func nodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	end := node.EndPosition()

	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}

// ImportBindings runs the imports query and returns local binding name to
// module specifier.
func (qm *QueryManager) ImportBindings(root *ts.Node, lang parser.Language, isTSX bool, source []byte) (map[string]string, error) {
	query, err := qm.GetQuery(lang, isTSX, QueryTypeImports)
	if err != nil {
		return nil, err
	}
	matches, err := qm.ExecuteQuery(root, query, source)
	if err != nil {
		return nil, err
	}

	bindings := make(map[string]string)
	for _, m := range matches {
		var local, src string
		for _, c := range m.Captures {
			if c.Field == "source" {
				src = c.Text
			} else if c.Category == "import" {
				local = c.Text
			}
		}
		if local != "" && src != "" {
			bindings[local] = src
		}
	}
	return bindings, nil
}
