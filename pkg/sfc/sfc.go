// Package sfc splits single-file component source into its script block and
// its template element tree.
//
// The file is parsed once with the HTML grammar. The first top-level
// <template> element becomes the template tree and the first top-level
// <script> element without a setup attribute becomes the script block.
// Neither block is required.
package sfc

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/vuespec/pkg/parser"
)

// Block is a script block of a single-file component.
type Block struct {
	// Content is the raw text between <script> and </script>
	Content string

	// Lang is the lang attribute, empty for plain JavaScript
	Lang string

	// Offset is the byte offset of Content within the component source
	Offset uint

	// Line is the 1-based line Content starts on
	Line uint
}

// Descriptor holds the blocks of one component file.
type Descriptor struct {
	Script   *Block
	Template *TemplateNode
}

// Splitter splits component sources. It is safe for concurrent use.
type Splitter struct {
	pm     *parser.ParserManager
	logger *slog.Logger
}

// NewSplitter creates a splitter parsing with pm. logger may be nil.
func NewSplitter(pm *parser.ParserManager, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{pm: pm, logger: logger}
}

// Split parses source and returns its blocks.
func (s *Splitter) Split(source []byte) (*Descriptor, error) {
	tree, err := s.pm.Parse(source, parser.LanguageHTML, false)
	if err != nil {
		return nil, fmt.Errorf("failed to parse component: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	desc := &Descriptor{}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "script_element":
			if desc.Script == nil {
				desc.Script = s.scriptBlock(child, source)
			}
		case "element":
			if desc.Template != nil {
				continue
			}
			tag, attrs, _ := readTag(child, source)
			if tag != "template" {
				continue
			}
			if lang := attrs["lang"]; lang != "" && lang != "html" {
				s.logger.Debug("skipping non-html template", "lang", lang)
				continue
			}
			desc.Template = buildElement(child, source)
		}
	}

	if root.HasError() {
		s.logger.Debug("component source has syntax errors, using partial tree")
	}

	return desc, nil
}

func (s *Splitter) scriptBlock(node *ts.Node, source []byte) *Block {
	_, attrs, _ := readTag(node, source)
	if _, setup := attrs["setup"]; setup {
		s.logger.Debug("skipping <script setup> block")
		return nil
	}

	block := &Block{Lang: attrs["lang"]}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "raw_text" {
			block.Content = child.Utf8Text(source)
			block.Offset = child.StartByte()
			block.Line = child.StartPosition().Row + 1
			return block
		}
	}
	// empty <script></script>
	block.Offset = node.EndByte()
	block.Line = node.EndPosition().Row + 1
	return block
}

// buildElement converts an HTML element node into a TemplateNode.
func buildElement(node *ts.Node, source []byte) *TemplateNode {
	tag, attrs, names := readTag(node, source)
	el := &TemplateNode{Kind: NodeElement, Tag: tag, Attrs: attrs, AttrNames: names}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "element", "script_element", "style_element":
			el.appendChild(buildElement(child, source))
		case "text", "entity":
			el.appendChild(&TemplateNode{Kind: NodeText, Text: child.Utf8Text(source)})
		case "comment":
			el.appendChild(&TemplateNode{Kind: NodeComment, Text: commentText(child.Utf8Text(source))})
		}
	}
	return el
}

// readTag returns the tag name and attributes of an element node. For a
// repeated attribute the last value wins and the first position is kept.
func readTag(node *ts.Node, source []byte) (string, map[string]string, []string) {
	attrs := make(map[string]string)
	var names []string
	var start *ts.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if k := child.Kind(); k == "start_tag" || k == "self_closing_tag" {
			start = child
			break
		}
	}
	if start == nil {
		return "", attrs, names
	}

	var tag string
	for i := uint(0); i < start.NamedChildCount(); i++ {
		child := start.NamedChild(i)
		switch child.Kind() {
		case "tag_name":
			tag = child.Utf8Text(source)
		case "attribute":
			name, value := readAttribute(child, source)
			if name == "" {
				continue
			}
			if _, dup := attrs[name]; !dup {
				names = append(names, name)
			}
			attrs[name] = value
		}
	}
	return tag, attrs, names
}

func readAttribute(node *ts.Node, source []byte) (string, string) {
	var name, value string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "attribute_name":
			name = child.Utf8Text(source)
		case "attribute_value":
			value = child.Utf8Text(source)
		case "quoted_attribute_value":
			if v := child.NamedChild(0); v != nil {
				value = v.Utf8Text(source)
			}
		}
	}
	return name, html.UnescapeString(value)
}

func commentText(raw string) string {
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	return strings.TrimSpace(raw)
}
