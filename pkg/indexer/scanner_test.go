package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/parser/queries"
	"github.com/gnana997/vuespec/pkg/store"
	"github.com/gnana997/vuespec/pkg/util"
)

const buttonComponent = `<template>
  <button @click="$emit('click')"><slot></slot></button>
</template>

<script>
export default {
  name: 'MyButton',
  props: ['size']
}
</script>
`

const inputComponent = `<script>
export default {
  props: {
    value: String
  }
}
</script>
`

const mixinScript = `export default {
  name: 'Focusable',
  props: ['autofocus']
}
`

const helperScript = `export function clamp(n, min, max) {
  return Math.min(Math.max(n, min), max)
}
`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestEngine(t *testing.T) *docgen.Engine {
	t.Helper()
	logger := util.NewDiscardLogger()
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return docgen.NewEngine(pm, qm, logger, docgen.DefaultOptions())
}

func projectFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/components/Button.vue":      buttonComponent,
		"src/components/forms/Input.vue": inputComponent,
		"src/mixins/focusable.js":        mixinScript,
		"src/utils/clamp.js":             helperScript,
		"src/types.d.ts":                 "declare const x: number",
		"node_modules/lib/Thing.vue":     buttonComponent,
		"dist/Button.vue":                buttonComponent,
		"README.md":                      "# docs",
	})
	return root
}

// --- DiscoverFiles ---

func TestDiscoverFiles_Defaults(t *testing.T) {
	root := projectFixture(t)

	files, err := DiscoverFiles(root, DefaultScanConfig(), util.NewDiscardLogger())
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"src/components/Button.vue",
		"src/components/forms/Input.vue",
		"src/mixins/focusable.js",
		"src/utils/clamp.js",
	}, rel)
}

func TestDiscoverFiles_CustomPatterns(t *testing.T) {
	root := projectFixture(t)

	files, err := DiscoverFiles(root, ScanConfig{
		Include: []string{"src/**/*.vue"},
		Exclude: []string{"src/components/forms/**"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Button.vue", filepath.Base(files[0]))
}

func TestDiscoverFiles_Errors(t *testing.T) {
	root := t.TempDir()

	_, err := DiscoverFiles(root, ScanConfig{Include: []string{"[bad"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")

	_, err = DiscoverFiles(root, ScanConfig{Exclude: []string{"[bad"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")

	_, err = DiscoverFiles(filepath.Join(root, "missing"), DefaultScanConfig(), nil)
	assert.Error(t, err)

	file := filepath.Join(root, "a.vue")
	require.NoError(t, os.WriteFile(file, []byte(buttonComponent), 0o644))
	_, err = DiscoverFiles(file, DefaultScanConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

// --- ExtractAll ---

func TestExtractAll(t *testing.T) {
	root := projectFixture(t)
	scanner := NewScanner(newTestEngine(t), nil, nil, nil, util.NewDiscardLogger())

	var mu sync.Mutex
	var progress []int
	docs, stats, err := scanner.ExtractAll(context.Background(), root, DefaultScanConfig(), func(done, total int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		progress = append(progress, done)
		assert.Equal(t, 4, total)
	})
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "src/components/Button.vue", docs[0].RelPath)
	assert.Equal(t, "MyButton", docs[0].Result.Component.Name)
	require.Len(t, docs[0].Result.Props, 1)
	assert.Equal(t, "size", docs[0].Result.Props[0].Name)
	assert.Equal(t, "src/components/forms/Input.vue", docs[1].RelPath)
	assert.Equal(t, "src/mixins/focusable.js", docs[2].RelPath)

	assert.Equal(t, 4, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesExtracted)
	assert.Equal(t, 1, stats.FilesSkipped, "helper scripts are not components")
	assert.Zero(t, stats.FilesFailed)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)

	byPath := ResultsByPath(docs)
	assert.Len(t, byPath, 3)
	assert.Equal(t, "Focusable", byPath["src/mixins/focusable.js"].Component.Name)
}

func TestExtractAll_ReusesCacheAndStore(t *testing.T) {
	root := projectFixture(t)
	engine := newTestEngine(t)
	logger := util.NewDiscardLogger()

	docStore, err := store.Open(filepath.Join(t.TempDir(), "docs.db"), logger)
	require.NoError(t, err)
	defer func() { _ = docStore.Close() }()

	cache := NewResultCache(DefaultResultCacheConfig(), logger)
	scanner := NewScanner(engine, cache, docStore, nil, logger)

	_, stats, err := scanner.ExtractAll(context.Background(), root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.FilesCached)

	_, stats, err = scanner.ExtractAll(context.Background(), root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FilesCached, "memory cache serves unchanged files")
	assert.Equal(t, 1, stats.FilesSkipped, "skipped scripts are remembered too")

	// a fresh scanner over the same store parses nothing
	fresh := NewScanner(engine, nil, docStore, nil, logger)
	docs, stats, err := fresh.ExtractAll(context.Background(), root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FilesCached)
	assert.Equal(t, "MyButton", docs[0].Result.Component.Name)

	st, err := docStore.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Entries)
}

func TestExtractAll_ChangedContentIsReparsed(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"Button.vue": buttonComponent})

	cache := NewResultCache(DefaultResultCacheConfig(), nil)
	scanner := NewScanner(newTestEngine(t), cache, nil, util.NewSourceCache(nil), util.NewDiscardLogger())

	_, _, err := scanner.ExtractAll(context.Background(), root, DefaultScanConfig(), nil)
	require.NoError(t, err)

	writeFiles(t, root, map[string]string{"Button.vue": inputComponent})
	scanner.Forget(filepath.Join(root, "Button.vue"))

	docs, stats, err := scanner.ExtractAll(context.Background(), root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.FilesCached)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Result.Component.Name)
	assert.Equal(t, "value", docs[0].Result.Props[0].Name)
}

func TestExtractAll_EmptyRoot(t *testing.T) {
	scanner := NewScanner(newTestEngine(t), nil, nil, nil, util.NewDiscardLogger())
	docs, stats, err := scanner.ExtractAll(context.Background(), t.TempDir(), DefaultScanConfig(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, stats.FilesDiscovered)
}

func TestExtractAll_Cancelled(t *testing.T) {
	root := projectFixture(t)
	scanner := NewScanner(newTestEngine(t), nil, nil, nil, util.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := scanner.ExtractAll(ctx, root, DefaultScanConfig(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_UnsupportedFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"notes.txt": "hello"})
	scanner := NewScanner(newTestEngine(t), nil, nil, nil, util.NewDiscardLogger())

	_, err := scanner.Process(filepath.Join(root, "notes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")

	_, err = scanner.Process(filepath.Join(root, "missing.vue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

// --- WorkerPool ---

type fakeProcessor struct{}

func (fakeProcessor) Process(path string) (*FileDocs, error) {
	switch filepath.Ext(path) {
	case ".bad":
		return nil, errors.New("boom")
	case ".skip":
		return nil, nil
	}
	return &FileDocs{Path: path, Result: &docgen.Result{}}, nil
}

func TestWorkerPool_Basic(t *testing.T) {
	pool := NewWorkerPool(2, fakeProcessor{}, util.NewDiscardLogger())
	pool.Start()
	defer pool.Stop()

	jobs := []string{"a.vue", "b.bad", "c.skip", "d.vue"}
	go func() {
		for i, f := range jobs {
			assert.NoError(t, pool.Submit(FileJob{FilePath: f, JobID: i}))
		}
		pool.FinishSubmitting()
	}()

	results, skipped, failed := 0, 0, 0
	for i := 0; i < len(jobs); i++ {
		select {
		case r := <-pool.Results():
			if r.Docs == nil {
				skipped++
			} else {
				results++
			}
		case e := <-pool.Errors():
			failed++
			assert.Equal(t, "b.bad", e.FilePath)
		}
	}

	assert.Equal(t, 2, results)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)

	pool.Wait()
	stats := pool.GetStats()
	assert.Equal(t, 2, stats.NumWorkers)
	assert.Equal(t, int64(4), stats.JobsSubmitted)
	assert.Equal(t, int64(3), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsFailed)
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, fakeProcessor{}, nil)
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.Error(t, pool.Submit(FileJob{FilePath: "a.vue"}))
}
