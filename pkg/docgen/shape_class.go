package docgen

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// classRecognizer handles the decorated-class shape: the members of the
// component class body and the mixins of its heritage clause.
type classRecognizer struct {
	c *scriptContext
}

func (r classRecognizer) extract(n *ts.Node) *partial {
	c := r.c
	if c.class != nil && n.Id() == c.class.Id() {
		if mixins := c.heritageMixins(n); len(mixins) > 0 {
			return &partial{mixins: mixins}
		}
		return nil
	}
	if !c.isClassMember(n) {
		return nil
	}

	switch n.Kind() {
	case "public_field_definition", "field_definition":
		return c.classField(n)
	case "method_definition":
		return c.classMethod(n)
	}
	return nil
}

// classField turns a @Prop / @PropSync field into a Property and an
// undecorated initialized field into Data.
func (c *scriptContext) classField(n *ts.Node) *partial {
	name := keyName(n, c.source)

	if d, args := findDecorator(n, "Prop", c.source); d != nil {
		p := Property{Name: name, Description: c.comments.Describe(n).Description}
		if len(args) > 0 {
			c.applyPropValue(args[0], &p)
		}
		c.applyTypeAnnotation(n, &p)
		return &partial{props: []Property{p}}
	}

	// @PropSync('prop', options) declares the prop under its first argument
	if _, args := findDecorator(n, "PropSync", c.source); len(args) > 0 {
		propName, ok := stringValue(unwrap(args[0]), c.source)
		if !ok {
			return nil
		}
		p := Property{Name: propName, Description: c.comments.Describe(n).Description}
		if len(args) > 1 {
			c.applyPropValue(args[1], &p)
		}
		c.applyTypeAnnotation(n, &p)
		return &partial{props: []Property{p}}
	}

	if len(decorators(n)) > 0 {
		return nil
	}
	v := memberValue(n)
	if v == nil {
		return nil
	}
	bag := c.comments.Extract(n)
	if !bag.Marked {
		return nil
	}
	return &partial{data: []Data{{
		Name:        name,
		Type:        valueType(v, c.source),
		Description: bag.Description,
		Default:     valueText(v, c.source),
	}}}
}

// applyTypeAnnotation replaces the decorator-derived type with an explicit
// TypeScript annotation.
func (c *scriptContext) applyTypeAnnotation(n *ts.Node, p *Property) {
	ann := firstNamed(field(n, "type"))
	if ann == nil {
		return
	}
	p.Type = LiteralType(nodeText(ann, c.source))
}

func (c *scriptContext) classMethod(n *ts.Node) *partial {
	name := keyName(n, c.source)
	if name == "constructor" {
		return nil
	}

	out := &partial{}
	if d, args := findDecorator(n, "Emit", c.source); d != nil {
		event := kebabCase(name)
		if len(args) > 0 {
			// an explicit empty name emits nothing
			if s, ok := stringValue(unwrap(args[0]), c.source); ok {
				event = s
			}
		}
		bag := c.comments.Describe(n)
		ev := newEvent(event)
		ev.Description = bag.Description
		ev.Params = bag.Params
		out.events = append(out.events, ev)
	}

	if name == "data" && !isGetter(n) {
		out.data = c.dataMembers(n)
		return out
	}

	bag := c.comments.Extract(n)
	if bag.Marked {
		if isGetter(n) {
			out.computed = append(out.computed, Computed{
				Name:        name,
				Type:        bag.Type,
				Description: bag.Description,
				FromStore:   computesFromStore(n, c.source),
			})
		} else if !hasChildKind(n, "set") {
			out.methods = append(out.methods, Method{Name: name, Description: bag.Description, Params: bag.Params})
		}
	}
	return out
}

// heritageMixins reads "extends mixins(A, B)" and "extends Mixins(A, B)".
func (c *scriptContext) heritageMixins(class *ts.Node) []Mixin {
	var heritage *ts.Node
	for i := uint(0); i < class.NamedChildCount(); i++ {
		if ch := class.NamedChild(i); ch.Kind() == "class_heritage" {
			heritage = ch
			break
		}
	}
	call := findCall(heritage)
	if call == nil {
		return nil
	}
	switch calleeName(call, c.source) {
	case "mixins", "Mixins":
	default:
		return nil
	}
	var mixins []Mixin
	for _, arg := range namedChildren(field(call, "arguments")) {
		arg = unwrap(arg)
		switch arg.Kind() {
		case "identifier":
			name := nodeText(arg, c.source)
			mixins = append(mixins, Mixin{Name: name, Source: c.imports[name]})
		case "member_expression":
			mixins = append(mixins, Mixin{Name: nodeText(arg, c.source)})
		}
	}
	return mixins
}

// findCall returns the first call expression at or below n, searching
// breadth first.
func findCall(n *ts.Node) *ts.Node {
	queue := []*ts.Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		if cur.Kind() == "call_expression" {
			return cur
		}
		queue = append(queue, namedChildren(cur)...)
	}
	return nil
}
