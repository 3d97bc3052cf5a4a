package docgen

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// recognizer is implemented by every component-shape recognizer and by the
// emit and slot scanners. extract returns nil when n is not something the
// recognizer handles.
type recognizer interface {
	extract(n *ts.Node) *partial
}

// scriptContext is the read-only view of one script the recognizers share.
type scriptContext struct {
	source   []byte
	comments CommentExtractor
	imports  map[string]string

	export *ts.Node
	class  *ts.Node
	style  Shape
	found  bool

	// options holds the ids of every options object: the exported object,
	// the object wrapped by defineComponent / Vue.extend, and the argument
	// of @Component / @Options.
	options   map[uintptr]bool
	classBody uintptr
}

func newScriptContext(source []byte, export *ts.Node, imports map[string]string, opts Options) *scriptContext {
	c := &scriptContext{
		source:   source,
		comments: NewCommentExtractor(source, opts.Marker),
		imports:  imports,
		export:   export,
		options:  make(map[uintptr]bool),
	}
	if !isDefaultExport(export) {
		c.export = nil
		return c
	}

	decl := field(export, "declaration")
	if decl == nil {
		decl = field(export, "value")
	}
	decl = unwrap(decl)

	switch kindOf(decl) {
	case "object":
		c.options[decl.Id()] = true
		c.style, c.found = ShapeObject, true
	case "call_expression":
		if arg := unwrap(firstNamed(field(decl, "arguments"))); kindOf(arg) == "object" {
			c.options[arg.Id()] = true
			c.style, c.found = ShapeObject, true
		}
	case "class_declaration", "class":
		c.class = decl
		c.style, c.found = ShapeClass, true
		if body := field(decl, "body"); body != nil {
			c.classBody = body.Id()
		}
		for _, owner := range []*ts.Node{export, decl} {
			for _, d := range decorators(owner) {
				name, args := decoratorCall(d, source)
				if name != "Component" && name != "Options" || len(args) == 0 {
					continue
				}
				if arg := unwrap(args[0]); arg.Kind() == "object" {
					c.options[arg.Id()] = true
				}
			}
		}
	}
	return c
}

// isOption reports whether member sits directly in an options object.
func (c *scriptContext) isOption(member *ts.Node) bool {
	p := member.Parent()
	return p != nil && c.options[p.Id()]
}

// isClassMember reports whether member sits directly in the component class.
func (c *scriptContext) isClassMember(member *ts.Node) bool {
	p := member.Parent()
	return p != nil && c.classBody != 0 && p.Id() == c.classBody
}

// scriptVisitor walks a script tree once, in document order, offering every
// node to each recognizer.
type scriptVisitor struct {
	ctx         *scriptContext
	recognizers []recognizer
}

func newScriptVisitor(ctx *scriptContext) *scriptVisitor {
	return &scriptVisitor{
		ctx: ctx,
		recognizers: []recognizer{
			objectRecognizer{ctx},
			classRecognizer{ctx},
			renderRecognizer{ctx},
			emitScanner{source: ctx.source, comments: ctx.comments},
			slotScanner{ctx},
		},
	}
}

// run visits root and returns acc.
func (v *scriptVisitor) run(root *ts.Node, acc *aggregator) *aggregator {
	if v.ctx.export != nil {
		acc.merge(&partial{
			description: v.ctx.comments.Describe(v.ctx.export).Description,
			style:       v.ctx.style,
			hasStyle:    v.ctx.found,
		})
	}
	return v.visit(root, acc)
}

func (v *scriptVisitor) visit(n *ts.Node, acc *aggregator) *aggregator {
	if n == nil {
		return acc
	}
	for _, r := range v.recognizers {
		acc.merge(r.extract(n))
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		acc = v.visit(n.NamedChild(i), acc)
	}
	return acc
}
