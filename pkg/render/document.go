package render

import (
	"strings"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// Document renders a full markdown page for one component. name is used
// when the component declares no name of its own.
func Document(name string, res *docgen.Result, opts Options) string {
	if res == nil {
		return ""
	}
	if res.Component.Name != "" {
		name = res.Component.Name
	}

	var b strings.Builder
	b.WriteString("# " + name + "\n\n")
	if len(res.Component.Description) > 0 {
		b.WriteString(strings.Join(res.Component.Description, "\n"))
		b.WriteString("\n\n")
	}

	t := Render(res, opts)
	sections := []struct {
		title string
		body  string
	}{
		{"Props", t.Props},
		{"Events", t.Events},
		{"Slots", t.Slots},
		{"Methods", t.Methods},
		{"Computed", t.Computed},
		{"MixIns", t.Mixins},
		{"Data", t.Data},
		{"Watch", t.Watch},
		{"Getters", t.Getters},
		{"Actions", t.Actions},
		{"Mutations", t.Mutations},
		{"State", t.State},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		b.WriteString("## " + s.title + "\n\n")
		b.WriteString(s.body)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
