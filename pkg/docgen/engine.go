package docgen

import (
	"fmt"
	"log/slog"
	"os"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/parser/queries"
	"github.com/gnana997/vuespec/pkg/sfc"
)

// Input is one component, already parsed.
type Input struct {
	// Script is the root of the script syntax tree, nil when the component
	// has no script
	Script *ts.Node

	// Source is the script text Script was parsed from
	Source []byte

	// Export is the "export default" statement. When nil, Parse looks for
	// it among the top-level statements of Script.
	Export *ts.Node

	// Imports maps local import bindings to module specifiers
	Imports map[string]string

	// Template is the template element tree, nil when absent
	Template *sfc.TemplateNode
}

// Parse extracts documentation from one component. The script is visited
// before the template; both feed one aggregator that is created for this
// call only. fp parses inline template handlers; with a nil fp they are
// skipped. Parse never fails: whatever cannot be recognized is left out.
func Parse(in Input, fp FragmentParser, opts Options, logger *slog.Logger) *Result {
	if logger == nil {
		logger = slog.Default()
	}
	acc := newAggregator(opts)

	if in.Script != nil {
		export := in.Export
		if export == nil {
			export = findDefaultExport(in.Script)
		}
		ctx := newScriptContext(in.Source, export, in.Imports, opts)
		acc = newScriptVisitor(ctx).run(in.Script, acc)
	}

	if in.Template != nil {
		tv := &templateVisitor{fp: fp, marker: opts.marker(), logger: logger}
		acc = tv.visit(in.Template, acc)
	}

	return acc.finish()
}

func findDefaultExport(root *ts.Node) *ts.Node {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		if child := root.NamedChild(i); isDefaultExport(child) {
			return child
		}
	}
	return nil
}

// Engine parses component files and extracts their documentation. It is
// safe for concurrent use; every call gets its own trees and aggregator.
type Engine struct {
	pm       *parser.ParserManager
	qm       *queries.QueryManager
	splitter *sfc.Splitter
	logger   *slog.Logger
	opts     Options
}

// NewEngine creates an engine. qm may be nil, in which case mixin sources
// are not resolved. logger may be nil.
func NewEngine(pm *parser.ParserManager, qm *queries.QueryManager, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		pm:       pm,
		qm:       qm,
		splitter: sfc.NewSplitter(pm, logger),
		logger:   logger,
		opts:     opts,
	}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// ParseFile reads and parses one component file.
func (e *Engine) ParseFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.ParseSource(source, path)
}

// ParseSource parses component source. filename selects the handling: .vue
// files are split into script and template, .js and .ts files are scripts.
func (e *Engine) ParseSource(source []byte, filename string) (*Result, error) {
	var (
		script    []byte
		blockLang string
		template  *sfc.TemplateNode
		hasScript bool
	)

	switch parser.DetectLanguage(filename) {
	case parser.LanguageHTML:
		desc, err := e.splitter.Split(source)
		if err != nil {
			return nil, err
		}
		template = desc.Template
		if desc.Script != nil {
			script = []byte(desc.Script.Content)
			blockLang = desc.Script.Lang
			hasScript = true
		}
		if blockLang == "" {
			blockLang = "js"
		}
	case parser.LanguageJavaScript, parser.LanguageTypeScript:
		script = source
		hasScript = true
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}

	if !hasScript {
		return Parse(Input{Template: template}, e.pm, e.opts, e.logger), nil
	}

	lang, isTSX, err := e.scriptLanguage(blockLang, filename)
	if err != nil {
		return nil, err
	}
	tree, err := e.pm.Parse(script, lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script of %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		e.logger.Debug("script has syntax errors, extracting from partial tree", "file", filename)
	}

	in := Input{
		Script:   root,
		Source:   script,
		Export:   e.locateExport(root, lang, isTSX, script),
		Template: template,
	}
	if e.qm != nil {
		imports, err := e.qm.ImportBindings(root, lang, isTSX, script)
		if err != nil {
			e.logger.Debug("import bindings unavailable", "file", filename, "error", err)
		}
		in.Imports = imports
	}

	return Parse(in, e.pm, e.opts, e.logger), nil
}

// scriptLanguage picks the grammar for a script: the dialect override,
// then the block's lang attribute, then the file extension.
func (e *Engine) scriptLanguage(blockLang, filename string) (parser.Language, bool, error) {
	name := blockLang
	if e.opts.Dialect.ScriptLang != "" {
		name = e.opts.Dialect.ScriptLang
	}

	lang := parser.DetectLanguage(filename)
	if name != "" {
		lang = parser.ParseLanguageString(name)
	}
	if lang != parser.LanguageJavaScript && lang != parser.LanguageTypeScript {
		return parser.LanguageUnknown, false, fmt.Errorf("unsupported script language %q in %s", name, filename)
	}

	isTSX := e.opts.Dialect.TSX || name == "tsx" || parser.IsTSXFile(filename)
	return lang, isTSX && lang == parser.LanguageTypeScript, nil
}

// locateExport finds the default-exported component definition with the
// component query. It returns nil when the query finds nothing, leaving
// Parse to scan the top-level statements.
func (e *Engine) locateExport(root *ts.Node, lang parser.Language, isTSX bool, source []byte) *ts.Node {
	if e.qm == nil {
		return nil
	}
	query, err := e.qm.GetQuery(lang, isTSX, queries.QueryTypeComponent)
	if err != nil {
		e.logger.Debug("component query unavailable", "error", err)
		return nil
	}
	matches, err := e.qm.ExecuteQuery(root, query, source)
	if err != nil {
		return nil
	}
	for _, m := range matches {
		if c := m.Capture("component.export"); c != nil && isDefaultExport(c.Node) {
			return c.Node
		}
	}
	return nil
}
