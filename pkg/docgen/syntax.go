package docgen

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Node helpers shared by the recognizers. They accept nil nodes so call
// sites can chain field lookups without checks.

func nodeText(n *ts.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

func kindOf(n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Kind()
}

func field(n *ts.Node, name string) *ts.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

// namedChildren returns the named children of n without comments.
func namedChildren(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	out := make([]*ts.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

func firstNamed(n *ts.Node) *ts.Node {
	if children := namedChildren(n); len(children) > 0 {
		return children[0]
	}
	return nil
}

func hasChildKind(n *ts.Node, kind string) bool {
	if n == nil {
		return false
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil && c.Kind() == kind {
			return true
		}
	}
	return false
}

// unwrap strips parentheses and TypeScript-only wrappers around an
// expression.
func unwrap(n *ts.Node) *ts.Node {
	for n != nil {
		switch n.Kind() {
		case "parenthesized_expression", "as_expression", "satisfies_expression",
			"non_null_expression", "type_assertion":
			inner := firstNamed(n)
			if n.Kind() == "type_assertion" {
				inner = lastNamed(n)
			}
			if inner == nil {
				return n
			}
			n = inner
		default:
			return n
		}
	}
	return n
}

func lastNamed(n *ts.Node) *ts.Node {
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

func isFunction(n *ts.Node) bool {
	switch kindOf(n) {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// isLiteral reports whether n is a value that can be shown as-is.
func isLiteral(n *ts.Node) bool {
	switch kindOf(n) {
	case "string", "template_string", "number", "true", "false", "null",
		"undefined", "object", "array", "regex":
		return true
	case "unary_expression":
		return kindOf(field(n, "argument")) == "number"
	}
	return false
}

// stringValue returns the contents of a string literal or a template
// literal without substitutions.
func stringValue(n *ts.Node, source []byte) (string, bool) {
	switch kindOf(n) {
	case "string":
		var b strings.Builder
		for i := uint(0); i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			if k := c.Kind(); k == "string_fragment" || k == "escape_sequence" {
				b.WriteString(c.Utf8Text(source))
			}
		}
		return b.String(), true
	case "template_string":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if n.NamedChild(i).Kind() == "template_substitution" {
				return "", false
			}
		}
		text := n.Utf8Text(source)
		return strings.TrimSuffix(strings.TrimPrefix(text, "`"), "`"), true
	}
	return "", false
}

// memberKey returns the key node of an object or class member.
func memberKey(member *ts.Node) *ts.Node {
	switch kindOf(member) {
	case "pair":
		return field(member, "key")
	case "method_definition", "public_field_definition":
		return field(member, "name")
	case "field_definition":
		return field(member, "property")
	case "shorthand_property_identifier":
		return member
	}
	return nil
}

// keyName returns the name of an object or class member key.
func keyName(member *ts.Node, source []byte) string {
	key := memberKey(member)
	if key == nil {
		return ""
	}
	if s, ok := stringValue(key, source); ok {
		return s
	}
	if key.Kind() == "computed_property_name" {
		if inner := firstNamed(key); inner != nil {
			if s, ok := stringValue(inner, source); ok {
				return s
			}
			return nodeText(inner, source)
		}
	}
	return nodeText(key, source)
}

// memberValue returns the value of an object member. For a method the
// method itself is the value.
func memberValue(member *ts.Node) *ts.Node {
	switch kindOf(member) {
	case "pair":
		return unwrap(field(member, "value"))
	case "method_definition":
		return member
	case "public_field_definition", "field_definition":
		return unwrap(field(member, "value"))
	}
	return nil
}

// objectMembers returns the members of an object literal.
func objectMembers(obj *ts.Node) []*ts.Node {
	var out []*ts.Node
	for _, c := range namedChildren(obj) {
		switch c.Kind() {
		case "pair", "method_definition", "shorthand_property_identifier", "spread_element":
			out = append(out, c)
		}
	}
	return out
}

// functionParams returns the parameter patterns of a function, method or
// arrow function. TypeScript parameter wrappers are removed.
func functionParams(fn *ts.Node) []*ts.Node {
	if single := field(fn, "parameter"); single != nil {
		return []*ts.Node{single}
	}
	var out []*ts.Node
	for _, p := range namedChildren(field(fn, "parameters")) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			if pattern := field(p, "pattern"); pattern != nil {
				p = pattern
			}
		}
		if p.Kind() == "assignment_pattern" {
			if left := field(p, "left"); left != nil {
				p = left
			}
		}
		out = append(out, p)
	}
	return out
}

// functionBody returns the body of a function-like node.
func functionBody(fn *ts.Node) *ts.Node {
	return field(fn, "body")
}

// returnedExpressions returns the arguments of the top-level return
// statements of a statement block, or the expression body of an arrow
// function.
func returnedExpressions(fn *ts.Node) []*ts.Node {
	body := functionBody(fn)
	if body == nil {
		return nil
	}
	if body.Kind() != "statement_block" {
		return []*ts.Node{unwrap(body)}
	}
	var out []*ts.Node
	for _, stmt := range namedChildren(body) {
		if stmt.Kind() == "return_statement" {
			if arg := firstNamed(stmt); arg != nil {
				out = append(out, unwrap(arg))
			}
		}
	}
	return out
}

// isGetter reports whether a method definition is a get accessor.
func isGetter(method *ts.Node) bool {
	return kindOf(method) == "method_definition" && hasChildKind(method, "get")
}

// decorators returns the decorators attached to a declaration: its own
// decorator children and, for TypeScript class methods, the decorator
// siblings directly in front of it.
func decorators(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	var out []*ts.Node
	var before []*ts.Node
	for prev := n.PrevSibling(); prev != nil && prev.Kind() == "decorator"; prev = prev.PrevSibling() {
		before = append([]*ts.Node{prev}, before...)
	}
	out = append(out, before...)
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c.Kind() == "decorator" {
			out = append(out, c)
		}
	}
	return out
}

// decoratorCall returns the decorator name and its call arguments (nil for a
// bare decorator).
func decoratorCall(d *ts.Node, source []byte) (string, []*ts.Node) {
	expr := firstNamed(d)
	switch kindOf(expr) {
	case "identifier":
		return nodeText(expr, source), nil
	case "member_expression":
		return nodeText(field(expr, "property"), source), nil
	case "call_expression":
		fn := field(expr, "function")
		name := nodeText(fn, source)
		if kindOf(fn) == "member_expression" {
			name = nodeText(field(fn, "property"), source)
		}
		args := namedChildren(field(expr, "arguments"))
		if args == nil {
			args = []*ts.Node{}
		}
		return name, args
	}
	return "", nil
}

func findDecorator(n *ts.Node, name string, source []byte) (*ts.Node, []*ts.Node) {
	for _, d := range decorators(n) {
		if dn, args := decoratorCall(d, source); dn == name {
			return d, args
		}
	}
	return nil, nil
}

// calleeName returns the name a call expression invokes: the identifier or
// the property of a member callee.
func calleeName(call *ts.Node, source []byte) string {
	fn := unwrap(field(call, "function"))
	switch kindOf(fn) {
	case "identifier":
		return nodeText(fn, source)
	case "member_expression":
		return nodeText(field(fn, "property"), source)
	}
	return ""
}

// isDefaultExport reports whether an export statement is "export default".
func isDefaultExport(n *ts.Node) bool {
	return kindOf(n) == "export_statement" && hasChildKind(n, "default")
}

// describeTarget returns the node whose comments document n: the enclosing
// expression statement when n is one, otherwise n itself.
func describeTarget(n *ts.Node) *ts.Node {
	if p := n.Parent(); p != nil && p.Kind() == "expression_statement" {
		return p
	}
	return n
}
