package docgen

import (
	"regexp"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// AnnotationBag is the parsed leading comment block of a node.
type AnnotationBag struct {
	// Marked is set when the block carries the opt-in marker
	Marked bool

	// Description holds untagged lines in order
	Description []string

	// Type holds @type lines
	Type []string

	// Params holds @arg lines
	Params []string

	// Content holds @content lines (fallback slot content)
	Content []string

	// Tags holds every other @tag
	Tags map[string][]string
}

// IsEmpty reports whether the bag carries nothing.
func (b AnnotationBag) IsEmpty() bool {
	return !b.Marked && len(b.Description) == 0 && len(b.Type) == 0 &&
		len(b.Params) == 0 && len(b.Content) == 0 && len(b.Tags) == 0
}

var tagRE = regexp.MustCompile(`^@(\w+)\b`)

// CommentExtractor reads the comment block attached in front of a node.
// It holds no state besides the source and marker.
type CommentExtractor struct {
	source []byte
	marker string
}

// NewCommentExtractor creates an extractor over source. An empty marker
// selects DefaultMarker.
func NewCommentExtractor(source []byte, marker string) CommentExtractor {
	return CommentExtractor{source: source, marker: Options{Marker: marker}.marker()}
}

// Extract returns the annotation bag of node when its comment block carries
// the opt-in marker, and an empty bag otherwise.
func (c CommentExtractor) Extract(node *ts.Node) AnnotationBag {
	bag := c.Describe(node)
	if !bag.Marked {
		return AnnotationBag{}
	}
	return bag
}

// Describe parses the comment block of node whether or not it is marked.
// Properties, events and slots are documented this way.
func (c CommentExtractor) Describe(node *ts.Node) AnnotationBag {
	var bag AnnotationBag
	if node == nil {
		return bag
	}
	for _, comment := range c.leadingComments(node) {
		c.parseComment(comment.Utf8Text(c.source), &bag)
	}
	return bag
}

// leadingComments returns the comment siblings directly in front of node,
// in source order. Decorators between the comments and a class member are
// skipped. A comment starting on the line where the previous sibling ends
// belongs to that sibling and stops the scan.
func (c CommentExtractor) leadingComments(node *ts.Node) []*ts.Node {
	prev := node.PrevSibling()
	for prev != nil && prev.Kind() == "decorator" {
		prev = prev.PrevSibling()
	}

	var comments []*ts.Node
	for prev != nil && prev.Kind() == "comment" {
		before := prev.PrevSibling()
		if before != nil && isTrailingComment(prev, before) {
			break
		}
		comments = append(comments, prev)
		prev = before
	}

	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}
	return comments
}

func isTrailingComment(comment, before *ts.Node) bool {
	if before.Kind() == "comment" {
		return false
	}
	if !before.IsNamed() && before.Kind() != "," && before.Kind() != ";" {
		return false
	}
	return before.EndPosition().Row == comment.StartPosition().Row
}

func (c CommentExtractor) parseComment(raw string, bag *AnnotationBag) {
	var lines []string
	switch {
	case strings.HasPrefix(raw, "//"):
		lines = []string{strings.TrimSpace(strings.TrimPrefix(raw, "//"))}
	case strings.HasPrefix(raw, "/*"):
		body := strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimSpace(strings.TrimLeft(line, "*"))
			if line != "" {
				lines = append(lines, line)
			}
		}
	default:
		return
	}

	for _, line := range lines {
		if strings.Contains(line, "eslint-disable") {
			continue
		}
		m := tagRE.FindStringSubmatch(line)
		if m == nil {
			if line != "" {
				bag.Description = append(bag.Description, line)
			}
			continue
		}

		value := strings.TrimSpace(line[len(m[0]):])
		switch key := m[1]; key {
		case c.marker:
			bag.Marked = true
		case "arg":
			bag.Params = append(bag.Params, value)
		case "type":
			bag.Type = append(bag.Type, value)
		case "content":
			bag.Content = append(bag.Content, value)
		default:
			if bag.Tags == nil {
				bag.Tags = make(map[string][]string)
			}
			bag.Tags[key] = append(bag.Tags[key], value)
		}
	}
}
