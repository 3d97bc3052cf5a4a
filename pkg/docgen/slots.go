package docgen

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// slotScanner recognizes slots rendered from script: "this.$slots.name"
// names a plain slot and "this.$scopedSlots.name(props)" a scoped one.
type slotScanner struct {
	c *scriptContext
}

func (s slotScanner) extract(n *ts.Node) *partial {
	if n.Kind() != "member_expression" {
		return nil
	}
	c := s.c

	accessor := slotAccessor(field(n, "object"), c.source)
	if accessor == "" {
		return nil
	}
	name := nodeText(field(n, "property"), c.source)
	if name == "" {
		return nil
	}

	var call *ts.Node
	if p := n.Parent(); p != nil && p.Kind() == "call_expression" {
		if fn := field(p, "function"); fn != nil && fn.Id() == n.Id() {
			call = p
		}
	}

	slot := Slot{Name: name, Bindings: map[string]string{}, Origin: OriginScript}
	target := describeTarget(n)
	switch {
	case call != nil:
		target = describeTarget(call)
		slot.Bindings = slotArgBindings(call, c.source)
		slot.Scoped = accessor == "$scopedSlots" || len(slot.Bindings) > 0
	case accessor == "$scopedSlots":
		return nil
	}

	bag := c.comments.Describe(target)
	slot.Description = strings.Join(bag.Description, "")
	slot.BackerDesc = strings.Join(bag.Content, "")
	return &partial{slots: []Slot{slot}}
}

// slotAccessor returns "$slots" or "$scopedSlots" when obj reads one of
// them, directly or through a call such as this.$slots().
func slotAccessor(obj *ts.Node, source []byte) string {
	obj = unwrap(obj)
	if kindOf(obj) == "call_expression" {
		obj = unwrap(field(obj, "function"))
	}
	var name string
	switch kindOf(obj) {
	case "identifier":
		name = nodeText(obj, source)
	case "member_expression":
		name = nodeText(field(obj, "property"), source)
	}
	switch name {
	case "$slots", "$scopedSlots":
		return name
	}
	return ""
}

// slotArgBindings reads the object passed to a slot function as its
// bindings.
func slotArgBindings(call *ts.Node, source []byte) map[string]string {
	bindings := map[string]string{}
	arg := unwrap(firstNamed(field(call, "arguments")))
	if kindOf(arg) != "object" {
		return bindings
	}
	for _, m := range objectMembers(arg) {
		switch m.Kind() {
		case "pair":
			bindings[keyName(m, source)] = nodeText(field(m, "value"), source)
		case "shorthand_property_identifier":
			bindings[nodeText(m, source)] = nodeText(m, source)
		}
	}
	return bindings
}
