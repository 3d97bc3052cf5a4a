package docgen

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// childAccessors are the context fields through which a render function
// places caller content.
var childAccessors = map[string]bool{
	"children": true,
	"slots":    true,
}

// renderRecognizer handles render options and methods. A render function
// whose context argument reads children marks the component functional and
// declares the default slot, since such components have no template to
// declare it in.
type renderRecognizer struct {
	c *scriptContext
}

func (r renderRecognizer) extract(n *ts.Node) *partial {
	switch n.Kind() {
	case "pair", "method_definition":
	default:
		return nil
	}
	c := r.c
	if keyName(n, c.source) != "render" || !(c.isOption(n) || c.isClassMember(n)) {
		return nil
	}

	fn := memberValue(n)
	if !isFunction(fn) && kindOf(fn) != "method_definition" {
		return nil
	}
	params := functionParams(fn)
	if len(params) < 2 || !readsChildren(params[1], functionBody(fn), c.source) {
		return nil
	}

	return &partial{
		functional: true,
		slots: []Slot{{
			Name:     "default",
			Bindings: map[string]string{},
			Origin:   OriginScript,
		}},
	}
}

// readsChildren reports whether a render context parameter is used to reach
// the caller's children: destructured directly or read as ctx.children.
func readsChildren(param, body *ts.Node, source []byte) bool {
	switch param.Kind() {
	case "object_pattern":
		for _, p := range namedChildren(param) {
			var key *ts.Node
			switch p.Kind() {
			case "shorthand_property_identifier_pattern":
				key = p
			case "pair_pattern":
				key = field(p, "key")
			case "object_assignment_pattern":
				key = field(p, "left")
			}
			if childAccessors[nodeText(key, source)] {
				return true
			}
		}
		return false
	case "identifier":
		ctx := nodeText(param, source)
		found := false
		walkNodes(body, func(n *ts.Node) bool {
			if found {
				return false
			}
			if n.Kind() == "member_expression" {
				obj := unwrap(field(n, "object"))
				if kindOf(obj) == "identifier" && nodeText(obj, source) == ctx &&
					childAccessors[nodeText(field(n, "property"), source)] {
					found = true
					return false
				}
			}
			return true
		})
		return found
	}
	return false
}

// walkNodes calls fn for n and its named descendants in document order.
// Returning false from fn skips the subtree of that node.
func walkNodes(n *ts.Node, fn func(*ts.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		walkNodes(n.NamedChild(i), fn)
	}
}
