package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// grammarPool holds the parsers of one grammar. At most maxSize parsers are
// checked out at once; idle parsers are reused before new ones are built, so
// the pool never grows past maxSize either.
type grammarPool struct {
	name    string
	lang    *ts.Language
	maxSize int

	// one token per checked-out parser
	inUse chan struct{}

	mu      sync.Mutex
	idle    []*ts.Parser
	created int
	closed  bool

	acquired atomic.Int64
	waited   atomic.Int64

	logger *slog.Logger
}

// GrammarStats describes the use of one grammar's parsers.
type GrammarStats struct {
	// Parsers is the number of parsers built for the grammar
	Parsers int
	// Acquired counts checkouts
	Acquired int64
	// Waited counts checkouts that blocked because every parser was busy
	Waited int64
}

func newGrammarPool(name string, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *grammarPool {
	if maxSize < 1 {
		maxSize = 1
	}
	return &grammarPool{
		name:    name,
		lang:    ts.NewLanguage(langPtr),
		maxSize: maxSize,
		inUse:   make(chan struct{}, maxSize),
		logger:  logger,
	}
}

// acquire checks out a parser, blocking while maxSize are in use.
func (g *grammarPool) acquire() (*ts.Parser, error) {
	g.acquired.Add(1)
	select {
	case g.inUse <- struct{}{}:
	default:
		g.waited.Add(1)
		g.inUse <- struct{}{}
	}

	g.mu.Lock()
	if n := len(g.idle); n > 0 {
		p := g.idle[n-1]
		g.idle = g.idle[:n-1]
		g.mu.Unlock()
		return p, nil
	}
	p, err := g.build()
	g.mu.Unlock()
	if err != nil {
		<-g.inUse
		return nil, err
	}
	return p, nil
}

// build creates a parser. g.mu must be held.
func (g *grammarPool) build() (*ts.Parser, error) {
	if g.closed {
		return nil, fmt.Errorf("%s parser pool is closed", g.name)
	}
	p := ts.NewParser()
	if p == nil {
		return nil, fmt.Errorf("failed to create %s parser", g.name)
	}
	if err := p.SetLanguage(g.lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", g.name, err)
	}
	g.created++
	g.logger.Debug("created parser", "grammar", g.name, "parsers", g.created, "max", g.maxSize)
	return p, nil
}

// release returns a checked-out parser. Parsers released after close are
// freed instead of kept.
func (g *grammarPool) release(p *ts.Parser) {
	if p == nil {
		return
	}
	g.mu.Lock()
	if g.closed {
		p.Close()
	} else {
		g.idle = append(g.idle, p)
	}
	g.mu.Unlock()
	<-g.inUse
}

// close frees the idle parsers. Parsers still checked out are freed on
// release.
func (g *grammarPool) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	for _, p := range g.idle {
		p.Close()
	}
	g.logger.Debug("closed parser pool", "grammar", g.name, "freed", len(g.idle))
	g.idle = nil
}

func (g *grammarPool) stats() GrammarStats {
	g.mu.Lock()
	created := g.created
	g.mu.Unlock()
	return GrammarStats{
		Parsers:  created,
		Acquired: g.acquired.Load(),
		Waited:   g.waited.Load(),
	}
}

// grammarName labels the grammar a pool key selects.
func grammarName(key poolKey) string {
	if key.isTSX {
		return "tsx"
	}
	switch key.lang {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	case LanguageHTML:
		return "html"
	}
	return key.lang.String()
}
