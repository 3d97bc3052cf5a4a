package docgen

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/gnana997/vuespec/pkg/sfc"
)

var (
	emitCallRE  = regexp.MustCompile(`\$emit\(.*?\)`)
	directiveRE = regexp.MustCompile(`^(v-|:|@)`)
)

// templateVisitor walks the template element tree. It collects <slot>
// declarations and hands inline $emit handlers to the expression parser.
type templateVisitor struct {
	fp     FragmentParser
	marker string
	logger *slog.Logger
}

func (v *templateVisitor) visit(n *sfc.TemplateNode, acc *aggregator) *aggregator {
	if n == nil || n.Kind != sfc.NodeElement {
		return acc
	}

	for _, name := range n.AttrNames {
		if !isEventBinding(name) {
			continue
		}
		if value := n.Attrs[name]; emitCallRE.MatchString(value) {
			acc = v.inlineEmits(name, value, acc)
		}
	}

	if n.Tag == "slot" {
		acc.merge(&partial{slots: []Slot{templateSlot(n)}})
	}

	for _, c := range n.Children {
		acc = v.visit(c, acc)
	}
	for _, b := range n.Branches {
		acc = v.visit(b, acc)
	}
	return acc
}

// inlineEmits parses one handler expression and scans it for $emit calls.
// A malformed expression is logged and skipped.
func (v *templateVisitor) inlineEmits(attr, expr string, acc *aggregator) *aggregator {
	tree, err := parseExpression(v.fp, expr)
	if err != nil {
		v.logger.Warn("skipping inline handler", "attribute", attr, "expression", expr, "error", err)
		return acc
	}
	defer tree.Close()
	return scanEmits(tree.RootNode(), []byte(expr), v.marker, acc)
}

func isEventBinding(attr string) bool {
	return strings.HasPrefix(attr, "@") || strings.HasPrefix(attr, "v-on:")
}

// templateSlot builds the slot a <slot> element declares. Plain attributes
// and bind-style attributes become bindings; other directives are dropped.
// A name binding names the slot instead.
func templateSlot(n *sfc.TemplateNode) Slot {
	bindings := map[string]string{}
	for _, attr := range n.AttrNames {
		value := n.Attrs[attr]
		switch {
		case !directiveRE.MatchString(attr):
			bindings[attr] = value
		case strings.HasPrefix(attr, ":"):
			bindings[attr[1:]] = value
		case strings.HasPrefix(attr, "v-bind:"):
			bindings[strings.TrimPrefix(attr, "v-bind:")] = value
		case attr == "v-bind":
			bindings[attr] = value
		}
	}

	name := "default"
	if bound, ok := bindings["name"]; ok {
		if bound != "" {
			name = bound
		}
		delete(bindings, "name")
	}

	return Slot{
		Name:        name,
		Description: slotDescription(n),
		BackerDesc:  backerDescription(n),
		Bindings:    bindings,
		Scoped:      len(bindings) > 0,
		Origin:      OriginTemplate,
	}
}

// slotDescription returns the comment directly in front of a slot element.
// A comment that opens an enclosing <slot> describes that slot's fallback
// content instead.
func slotDescription(n *sfc.TemplateNode) string {
	p := n.Parent
	if p == nil {
		return ""
	}
	idx := -1
	for i, c := range p.Children {
		if c == n {
			idx = i
			break
		}
	}

	for i := idx - 1; i >= 0; i-- {
		sib := p.Children[i]
		switch {
		case sib.Kind == sfc.NodeComment:
			if p.Tag == "slot" && firstComment(p) == sib {
				return ""
			}
			return sib.Text
		case sib.IsBlank():
			continue
		default:
			return ""
		}
	}
	return ""
}

// backerDescription returns the first comment among a slot's children.
func backerDescription(n *sfc.TemplateNode) string {
	if c := firstComment(n); c != nil {
		return c.Text
	}
	return ""
}

// firstComment returns the comment child that leads n's content, if any.
func firstComment(n *sfc.TemplateNode) *sfc.TemplateNode {
	for _, c := range n.Children {
		switch {
		case c.Kind == sfc.NodeComment:
			return c
		case c.IsBlank():
			continue
		default:
			return nil
		}
	}
	return nil
}
