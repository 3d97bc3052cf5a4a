package sfc

import (
	"strings"
)

// NodeKind distinguishes template node types.
type NodeKind int

const (
	// NodeElement is a tag with attributes and children
	NodeElement NodeKind = iota
	// NodeText is character data between tags
	NodeText
	// NodeComment is an HTML comment
	NodeComment
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "element"
	case NodeText:
		return "text"
	case NodeComment:
		return "comment"
	default:
		return "unknown"
	}
}

// TemplateNode is one node of a component template.
//
// An element carrying v-if owns the v-else-if / v-else elements that follow
// it as Branches; those branch elements do not appear in Children of the
// enclosing element. Branch elements share the v-if element's Parent.
type TemplateNode struct {
	Kind     NodeKind
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*TemplateNode
	Branches []*TemplateNode
	Parent   *TemplateNode

	// AttrNames lists attribute names in source order
	AttrNames []string
}

// IsElement reports whether n is an element with the given tag.
func (n *TemplateNode) IsElement(tag string) bool {
	return n != nil && n.Kind == NodeElement && n.Tag == tag
}

// Attr returns an attribute value and whether it is present.
func (n *TemplateNode) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// IsBlank reports whether n is a text node holding only whitespace.
func (n *TemplateNode) IsBlank() bool {
	return n.Kind == NodeText && strings.TrimSpace(n.Text) == ""
}

// Walk calls fn for n and every node below it in document order, branches
// after children. Walking stops early when fn returns false.
func (n *TemplateNode) Walk(fn func(*TemplateNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	for _, b := range n.Branches {
		if !b.Walk(fn) {
			return false
		}
	}
	return true
}

// appendChild adds child to n, folding v-else-if / v-else elements into the
// branch list of the preceding v-if element. Text and comments between the
// branches of one chain are dropped.
func (n *TemplateNode) appendChild(child *TemplateNode) {
	child.Parent = n

	if child.Kind == NodeElement && isElseBranch(child) {
		i := len(n.Children) - 1
		for i >= 0 && n.Children[i].Kind != NodeElement {
			i--
		}
		if i >= 0 {
			if _, ok := n.Children[i].Attrs["v-if"]; ok {
				n.Children = n.Children[:i+1]
				n.Children[i].Branches = append(n.Children[i].Branches, child)
				return
			}
		}
	}

	n.Children = append(n.Children, child)
}

func isElseBranch(n *TemplateNode) bool {
	if _, ok := n.Attrs["v-else-if"]; ok {
		return true
	}
	_, ok := n.Attrs["v-else"]
	return ok
}
