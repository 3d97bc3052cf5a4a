package parser

import (
	"github.com/gnana997/vuespec/pkg/util"
)

// getDefaultPoolSize returns the parser pool size per grammar.
//
// It MUST match the extraction worker count (indexer.ExtractAll uses the same
// util.GetOptimalPoolSize) so workers never block waiting for a parser. A
// single-file component takes two parsers in sequence (HTML, then the script
// grammar), never two at once.
func getDefaultPoolSize() int {
	return util.GetOptimalPoolSize()
}
