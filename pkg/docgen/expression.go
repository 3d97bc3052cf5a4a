package docgen

import (
	"errors"
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/vuespec/pkg/parser"
)

// FragmentParser produces syntax trees for standalone source fragments.
// *parser.ParserManager satisfies it.
type FragmentParser interface {
	Parse(source []byte, lang parser.Language, isTSX bool) (*ts.Tree, error)
}

// ErrMalformedExpression is returned for fragments that do not parse cleanly.
var ErrMalformedExpression = errors.New("malformed expression")

// parseExpression parses an attribute value as a JavaScript program. The
// caller owns the returned tree.
func parseExpression(fp FragmentParser, expr string) (*ts.Tree, error) {
	if fp == nil {
		return nil, errors.New("no fragment parser")
	}
	tree, err := fp.Parse([]byte(expr), parser.LanguageJavaScript, false)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: %q", ErrMalformedExpression, expr)
	}
	return tree, nil
}
