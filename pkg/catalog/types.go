package catalog

import (
	"strings"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// Component is one documented component in the catalog.
type Component struct {
	// Name is the declared component name, or one derived from the file
	Name string `json:"name"`

	// Path is the source file relative to the catalog root, slash-separated
	Path string `json:"path"`

	// Category is the directory the component lives in, empty at the root
	Category string `json:"category,omitempty"`

	Docs *docgen.Result `json:"docs"`
}

// Description returns the component description as one line.
func (c *Component) Description() string {
	if c.Docs == nil {
		return ""
	}
	return strings.Join(c.Docs.Component.Description, " ")
}

// Category groups the components of one directory.
type Category struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}
