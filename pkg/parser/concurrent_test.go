package parser

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/gnana997/vuespec/pkg/util"
)

// TestConcurrentParsing parses from many goroutines at once. The pool must
// never grow past its configured size.
func TestConcurrentParsing(t *testing.T) {
	manager := newTestManager()
	defer manager.Close()

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errChan := make(chan error, numGoroutines)

	source := []byte(sampleScript)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := manager.Parse(source, LanguageJavaScript, false)
			if err != nil {
				errChan <- err
				return
			}
			tree.Close()
		}()
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs)

	stats := manager.GetStats()
	assert.LessOrEqual(t, stats.ParsersCreated, getDefaultPoolSize())
	assert.GreaterOrEqual(t, stats.ParsersCreated, 1)
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
}

// TestConcurrentMultiLanguage mirrors a component scan: the HTML grammar
// splits the file while the script grammars parse the script blocks.
func TestConcurrentMultiLanguage(t *testing.T) {
	manager := newTestManager()
	defer manager.Close()

	sources := map[Language]string{
		LanguageHTML:       sampleSFC,
		LanguageJavaScript: sampleScript,
		LanguageTypeScript: sampleTS,
	}

	const perLanguage = 20
	var wg sync.WaitGroup
	kinds := make(chan string, perLanguage*len(sources))

	for lang, src := range sources {
		for i := 0; i < perLanguage; i++ {
			wg.Add(1)
			go func(lang Language, src []byte) {
				defer wg.Done()
				tree, err := manager.Parse(src, lang, false)
				if !assert.NoError(t, err) {
					return
				}
				kinds <- tree.RootNode().Kind()
				tree.Close()
			}(lang, []byte(src))
		}
	}

	wg.Wait()
	close(kinds)

	counts := map[string]int{}
	for k := range kinds {
		counts[k]++
	}
	assert.Equal(t, perLanguage, counts["document"])
	assert.Equal(t, 2*perLanguage, counts["program"])

	// one pool per grammar, each bounded
	assert.LessOrEqual(t, manager.GetStats().ParsersCreated, 3*getDefaultPoolSize())
}

func TestPoolReuse(t *testing.T) {
	manager := newTestManager()
	defer manager.Close()

	for i := 0; i < 10; i++ {
		tree, err := manager.Parse([]byte("$emit('a')"), LanguageJavaScript, false)
		assert.NoError(t, err)
		tree.Close()
	}

	// sequential use never needs a second parser
	assert.Equal(t, 1, manager.GetStats().ParsersCreated)
}

func TestGrammarStats(t *testing.T) {
	manager := newTestManager()
	defer manager.Close()

	for _, c := range []struct {
		src   string
		lang  Language
		isTSX bool
	}{
		{sampleSFC, LanguageHTML, false},
		{sampleScript, LanguageJavaScript, false},
		{sampleScript, LanguageJavaScript, false},
		{sampleTS, LanguageTypeScript, true},
	} {
		tree, err := manager.Parse([]byte(c.src), c.lang, c.isTSX)
		require.NoError(t, err)
		tree.Close()
	}

	grammars := manager.GetStats().Grammars
	require.Len(t, grammars, 3)
	assert.Equal(t, GrammarStats{Parsers: 1, Acquired: 1}, grammars["html"])
	assert.Equal(t, GrammarStats{Parsers: 1, Acquired: 2}, grammars["javascript"])
	assert.Equal(t, GrammarStats{Parsers: 1, Acquired: 1}, grammars["tsx"])
}

func TestGrammarPool_BlocksAtMaxSize(t *testing.T) {
	pool := newGrammarPool("javascript", ts_javascript.Language(), 1, util.NewDiscardLogger())
	defer pool.close()

	first, err := pool.acquire()
	require.NoError(t, err)

	got := make(chan struct{})
	go func() {
		p, err := pool.acquire()
		if assert.NoError(t, err) {
			pool.release(p)
		}
		close(got)
	}()

	require.Eventually(t, func() bool { return pool.stats().Waited == 1 }, time.Second, 5*time.Millisecond)
	pool.release(first)
	<-got

	assert.Equal(t, GrammarStats{Parsers: 1, Acquired: 2, Waited: 1}, pool.stats(), "the waiter reuses the released parser")
}

func TestGrammarPool_ReleaseAfterClose(t *testing.T) {
	pool := newGrammarPool("html", ts_javascript.Language(), 2, util.NewDiscardLogger())
	p, err := pool.acquire()
	require.NoError(t, err)

	pool.close()
	pool.release(p)

	_, err = pool.acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
