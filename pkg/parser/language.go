package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a grammar the ParserManager can load.
type Language int

const (
	// LanguageTypeScript represents TypeScript (.ts files, <script lang="ts">)
	LanguageTypeScript Language = iota
	// LanguageJavaScript represents JavaScript (.js files, plain <script>)
	LanguageJavaScript
	// LanguageHTML is used for single-file components and their templates
	LanguageHTML
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	case LanguageHTML:
		return "html"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the grammar from a file path.
// Single-file components (.vue) are parsed with the HTML grammar first and
// their script block is parsed separately.
func DetectLanguage(filePath string) Language {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".vue", ".html", ".htm":
		return LanguageHTML
	default:
		return LanguageUnknown
	}
}

// IsTSXFile checks if a file path represents a TSX file.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// IsComponentFile reports whether filePath is a single-file component.
func IsComponentFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".vue"
}

// ParseLanguageString converts a language name, as written in a script
// block's lang attribute or a config file, to a Language.
// An empty string means plain JavaScript.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "typescript", "ts", "tsx":
		return LanguageTypeScript
	case "javascript", "js", "jsx", "":
		return LanguageJavaScript
	case "html":
		return LanguageHTML
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageTypeScript,
		LanguageJavaScript,
		LanguageHTML,
	}
}
