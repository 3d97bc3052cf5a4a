package docgen

import "strings"

// DefaultMarker is the doc-comment tag that opts a member into
// documentation.
const DefaultMarker = "vuese"

// Dialect carries syntax switches for the step that parses the script
// block.
type Dialect struct {
	// ScriptLang overrides the script language ("js", "ts", "tsx"). Empty
	// means: use the block's lang attribute or the file extension.
	ScriptLang string `yaml:"script_lang" json:"scriptLang,omitempty"`

	// TSX parses TypeScript with the TSX grammar.
	TSX bool `yaml:"tsx" json:"tsx,omitempty"`
}

// Options configures extraction.
type Options struct {
	// IncludeSyncEvents keeps "update:<prop>" events in the result. Sync
	// events are still deduplicated when excluded.
	IncludeSyncEvents bool `yaml:"include_sync_events" json:"includeSyncEvents"`

	// Marker is the opt-in tag, with or without a leading "@".
	Marker string `yaml:"marker" json:"marker"`

	Dialect Dialect `yaml:"dialect" json:"dialect"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{Marker: DefaultMarker}
}

// marker returns the normalized opt-in tag.
func (o Options) marker() string {
	m := strings.TrimPrefix(strings.TrimSpace(o.Marker), "@")
	if m == "" {
		return DefaultMarker
	}
	return m
}
