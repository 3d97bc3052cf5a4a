package docgen

import (
	"regexp"
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
)

var syncEventRE = regexp.MustCompile(`^update:(.+)$`)

// newEvent builds an event named name, flagging "update:<prop>" names as
// synchronization events.
func newEvent(name string) Event {
	ev := Event{Name: name}
	if m := syncEventRE.FindStringSubmatch(name); m != nil {
		ev.IsSync = true
		ev.SyncProp = m[1]
	}
	return ev
}

// kebabCase converts a camel-case method name to an event name:
// saveItem becomes save-item.
func kebabCase(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// emitScanner recognizes $emit calls anywhere in a tree. It runs over
// component scripts and over inline handler fragments from the template.
type emitScanner struct {
	source   []byte
	comments CommentExtractor
}

func (s emitScanner) extract(n *ts.Node) *partial {
	if n.Kind() != "call_expression" || !isEmitCallee(field(n, "function"), s.source) {
		return nil
	}
	args := namedChildren(field(n, "arguments"))
	if len(args) == 0 {
		return nil
	}

	first := unwrap(args[0])
	var name string
	if str, ok := stringValue(first, s.source); ok {
		name = str
	} else if first.Kind() == "identifier" {
		// dynamic event name
		name = "`" + nodeText(first, s.source) + "`"
	}
	if name == "" {
		return nil
	}

	bag := s.comments.Describe(describeTarget(n))
	ev := newEvent(name)
	ev.Description = bag.Description
	ev.Params = bag.Params
	return &partial{events: []Event{ev}}
}

func isEmitCallee(fn *ts.Node, source []byte) bool {
	fn = unwrap(fn)
	switch kindOf(fn) {
	case "identifier":
		return nodeText(fn, source) == "$emit"
	case "member_expression":
		return nodeText(field(fn, "property"), source) == "$emit"
	}
	return false
}

// scanEmits runs the emit scanner over every node below root.
func scanEmits(root *ts.Node, source []byte, marker string, acc *aggregator) *aggregator {
	s := emitScanner{source: source, comments: NewCommentExtractor(source, marker)}
	walkNodes(root, func(n *ts.Node) bool {
		acc.merge(s.extract(n))
		return true
	})
	return acc
}
