package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// poolKey uniquely identifies a parser pool (language + TSX variant)
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager hands out tree-sitter parsers for the grammars a component
// file needs: HTML for the single-file component and its template,
// JavaScript or TypeScript for the script block and for inline handler
// expressions.
//
// Memory Management:
//   - Parser pools are created lazily on first use per grammar
//   - ParserManager owns the pools and must be closed via Close()
//   - Callers own returned Trees and must call tree.Close()
//
// Thread Safety:
//   - Safe for concurrent use; each pool holds up to GetOptimalPoolSize parsers
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("export default {}"), LanguageJavaScript, false)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools  map[poolKey]*grammarPool
	mutex  sync.RWMutex
	logger *slog.Logger

	stats struct {
		parsesCalled int
		parseErrors  int
	}
}

// NewParserManager creates a new ParserManager. logger may be nil.
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:  make(map[poolKey]*grammarPool),
		logger: logger,
	}
}

// Parse parses source with the given grammar. isTSX only matters for
// TypeScript.
//
// Syntax errors do not fail the call: tree-sitter always produces a tree,
// and a partial tree is still useful for documentation extraction. Callers
// that need a clean parse (the inline expression sub-parser) check
// tree.RootNode().HasError() themselves.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	if tree != nil && tree.RootNode().HasError() {
		pm.stats.parseErrors++
	}
	pm.mutex.Unlock()

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	return tree, nil
}

// ParseFile parses a file by detecting its grammar from the path.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return pm.Parse(source, lang, IsTSXFile(filePath))
}

// Close releases all parser pools. The manager must not be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager",
		"pools", len(pm.pools),
		"parses_called", pm.stats.parsesCalled,
		"parse_errors", pm.stats.parseErrors)

	for _, pool := range pm.pools {
		if pool != nil {
			pool.close()
		}
	}
	pm.pools = make(map[poolKey]*grammarPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one,
// using double-checked locking.
func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*grammarPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX && lang == LanguageTypeScript}

	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := pm.GetLanguagePointer(key.lang, key.isTSX)
	if err != nil {
		return nil, err
	}

	poolSize := getDefaultPoolSize()
	pool = newGrammarPool(grammarName(key), langPtr, poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool",
		"grammar", pool.name,
		"maxSize", poolSize)

	return pool, nil
}

// GetLanguagePointer returns the tree-sitter grammar for lang. QueryManager
// uses it to compile queries against the same grammar the parsers use.
func (pm *ParserManager) GetLanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil

	case LanguageJavaScript:
		return ts_javascript.Language(), nil

	case LanguageHTML:
		return ts_html.Language(), nil

	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	stats := ParserStats{
		ParsesCalled: pm.stats.parsesCalled,
		ParseErrors:  pm.stats.parseErrors,
		Grammars:     make(map[string]GrammarStats, len(pm.pools)),
	}
	for _, pool := range pm.pools {
		gs := pool.stats()
		stats.ParsersCreated += gs.Parsers
		stats.Grammars[pool.name] = gs
	}
	return stats
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int

	// ParseErrors counts trees that contained at least one ERROR node
	ParseErrors int

	// Grammars breaks parser use down by grammar name ("html",
	// "javascript", "typescript", "tsx")
	Grammars map[string]GrammarStats
}
