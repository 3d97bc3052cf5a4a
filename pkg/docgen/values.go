package docgen

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// propTypeOf reads a prop type declaration: a constructor name or an array
// of constructor names.
func propTypeOf(n *ts.Node, source []byte) *PropType {
	n = unwrap(n)
	switch kindOf(n) {
	case "identifier":
		return LiteralType(nodeText(n, source))
	case "array":
		var names []string
		for _, el := range namedChildren(n) {
			if el.Kind() == "identifier" {
				names = append(names, nodeText(el, source))
			}
		}
		if len(names) == 0 {
			return nil
		}
		return UnionType(names...)
	}
	return nil
}

func hasFunctionType(t *PropType) bool {
	for _, name := range t.Names() {
		if strings.EqualFold(name, "function") {
			return true
		}
	}
	return false
}

// applyPropValue fills p from a prop declaration value: a bare type, an
// array of types, or an options object with type, default, required and
// validator.
func (c *scriptContext) applyPropValue(value *ts.Node, p *Property) {
	value = unwrap(value)
	switch kindOf(value) {
	case "identifier", "array":
		p.Type = propTypeOf(value, c.source)
		return
	case "object":
	default:
		return
	}

	members := objectMembers(value)

	// type first: a Function type changes how default is read
	for _, m := range members {
		if keyName(m, c.source) != "type" || m.Kind() != "pair" {
			continue
		}
		p.Type = propTypeOf(field(m, "value"), c.source)
		if desc := c.comments.Describe(m).Description; len(desc) > 0 {
			p.TypeDesc = desc
		}
		break
	}

	for _, m := range members {
		if m.Kind() == "spread_element" || m.Kind() == "shorthand_property_identifier" {
			continue
		}
		v := memberValue(m)
		switch keyName(m, c.source) {
		case "default":
			if hasFunctionType(p.Type) {
				if isFunction(v) || m.Kind() == "method_definition" {
					text := nodeText(v, c.source)
					p.Default = &text
				}
			} else {
				text := c.defaultText(v)
				p.Default = &text
			}
			if desc := c.comments.Describe(m).Description; len(desc) > 0 {
				p.DefaultDesc = desc
			}
		case "required":
			switch kindOf(v) {
			case "true":
				p.Required = boolPtr(true)
			case "false":
				p.Required = boolPtr(false)
			}
		case "validator":
			p.Validator = nodeText(v, c.source)
			if desc := c.comments.Describe(m).Description; len(desc) > 0 {
				p.ValidatorDesc = desc
			}
		}
	}
}

// defaultText renders a default value. Strings are shown without quotes.
// A function is reduced to the value it returns when its body is a single
// literal; otherwise its source text is kept.
func (c *scriptContext) defaultText(v *ts.Node) string {
	if s, ok := stringValue(v, c.source); ok {
		return s
	}
	if isFunction(v) || kindOf(v) == "method_definition" {
		if reduced := reduceFunction(v); reduced != nil {
			return nodeText(reduced, c.source)
		}
	}
	return nodeText(v, c.source)
}

// reduceFunction returns the literal a function always returns, or nil.
func reduceFunction(fn *ts.Node) *ts.Node {
	body := functionBody(fn)
	if body == nil {
		return nil
	}
	if body.Kind() != "statement_block" {
		if b := unwrap(body); isLiteral(b) {
			return b
		}
		return nil
	}
	stmts := namedChildren(body)
	if len(stmts) != 1 || stmts[0].Kind() != "return_statement" {
		return nil
	}
	if arg := unwrap(firstNamed(stmts[0])); isLiteral(arg) {
		return arg
	}
	return nil
}

// valueType names the type of a data or state initializer.
func valueType(v *ts.Node, source []byte) string {
	switch kindOf(v) {
	case "string", "template_string":
		return "String"
	case "number":
		return "Number"
	case "true", "false":
		return "Boolean"
	case "null":
		return "Null"
	case "undefined":
		return "Undefined"
	case "object":
		return "Object"
	case "array":
		return "Array"
	case "regex":
		return "RegExp"
	case "arrow_function", "function_expression", "function", "generator_function", "method_definition":
		return "Function"
	case "new_expression":
		return nodeText(field(v, "constructor"), source)
	case "unary_expression":
		if kindOf(field(v, "argument")) == "number" {
			return "Number"
		}
	}
	return ""
}

// valueText renders a data or state initializer.
func valueText(v *ts.Node, source []byte) string {
	if kindOf(v) == "method_definition" {
		return ""
	}
	if s, ok := stringValue(v, source); ok {
		return s
	}
	return nodeText(v, source)
}

// computesFromStore follows the returned expression of a computed member
// down its member chain and reports whether it reads this.$store (or any
// this.<x> whose name mentions "store").
func computesFromStore(n *ts.Node, source []byte) bool {
	for depth := 0; n != nil && depth < 64; depth++ {
		switch n.Kind() {
		case "pair":
			n = unwrap(field(n, "value"))
		case "method_definition", "arrow_function", "function_expression", "function":
			n = functionBody(n)
		case "statement_block":
			stmts := namedChildren(n)
			if len(stmts) == 0 {
				return false
			}
			n = stmts[len(stmts)-1]
		case "return_statement", "expression_statement":
			n = firstNamed(n)
		case "parenthesized_expression", "await_expression", "as_expression", "non_null_expression":
			n = firstNamed(n)
		case "call_expression":
			n = field(n, "function")
		case "subscript_expression":
			n = field(n, "object")
		case "member_expression":
			obj := field(n, "object")
			if kindOf(obj) == "this" {
				prop := nodeText(field(n, "property"), source)
				return strings.Contains(strings.ToLower(prop), "store")
			}
			n = obj
		default:
			return false
		}
	}
	return false
}

// storeHelpers are the helpers that map store state into computed members.
var storeHelpers = map[string]bool{
	"mapState":   true,
	"mapGetters": true,
}

// storeMappedNames returns the member names a "...mapState(...)" style
// spread contributes, and false when the spread is not a store helper call.
func storeMappedNames(spread *ts.Node, source []byte) ([]string, bool) {
	call := unwrap(firstNamed(spread))
	if kindOf(call) != "call_expression" || !storeHelpers[calleeName(call, source)] {
		return nil, false
	}
	args := namedChildren(field(call, "arguments"))
	if len(args) == 0 {
		return nil, true
	}

	// mapState('namespace', [...]) takes the mapping last
	mapping := unwrap(args[len(args)-1])
	var names []string
	switch mapping.Kind() {
	case "array":
		for _, el := range namedChildren(mapping) {
			if s, ok := stringValue(el, source); ok {
				names = append(names, s)
			}
		}
	case "object":
		for _, m := range objectMembers(mapping) {
			if name := keyName(m, source); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, true
}

func boolPtr(b bool) *bool { return &b }
