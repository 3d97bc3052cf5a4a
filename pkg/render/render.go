// Package render formats extraction results as markdown tables.
//
// Every descriptor kind gets one table. The columns of each table are
// caller-supplied labels; a label the renderer does not know renders "-" in
// every row, so tables can carry placeholder columns.
package render

import (
	"strings"

	"github.com/gnana997/vuespec/pkg/docgen"
)

// Options holds the column labels per descriptor kind.
type Options struct {
	Props     []string `yaml:"props" json:"props"`
	Events    []string `yaml:"events" json:"events"`
	Slots     []string `yaml:"slots" json:"slots"`
	Methods   []string `yaml:"methods" json:"methods"`
	Computed  []string `yaml:"computed" json:"computed"`
	Mixins    []string `yaml:"mixins" json:"mixins"`
	Data      []string `yaml:"data" json:"data"`
	Watch     []string `yaml:"watch" json:"watch"`
	Getters   []string `yaml:"getters" json:"getters"`
	Actions   []string `yaml:"actions" json:"actions"`
	Mutations []string `yaml:"mutations" json:"mutations"`
	State     []string `yaml:"state" json:"state"`
}

// DefaultOptions returns the stock column sets.
func DefaultOptions() Options {
	return Options{
		Props:     []string{"Name", "Description", "Type", "Required", "Default"},
		Events:    []string{"Event Name", "Description", "Parameters"},
		Slots:     []string{"Name", "Description", "Default Slot Content"},
		Methods:   []string{"Method", "Description", "Parameters"},
		Computed:  []string{"Computed", "Type", "Description", "From Store"},
		Mixins:    []string{"MixIn"},
		Data:      []string{"Name", "Type", "Description", "Default"},
		Watch:     []string{"Name", "Description", "Parameters"},
		Getters:   []string{"Getter", "Type", "Description"},
		Actions:   []string{"Action", "Description", "Parameters"},
		Mutations: []string{"Mutation", "Description", "Parameters"},
		State:     []string{"Name", "Description"},
	}
}

// withDefaults fills every empty column set from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(dst *[]string, def []string) {
		if len(*dst) == 0 {
			*dst = def
		}
	}
	fill(&o.Props, d.Props)
	fill(&o.Events, d.Events)
	fill(&o.Slots, d.Slots)
	fill(&o.Methods, d.Methods)
	fill(&o.Computed, d.Computed)
	fill(&o.Mixins, d.Mixins)
	fill(&o.Data, d.Data)
	fill(&o.Watch, d.Watch)
	fill(&o.Getters, d.Getters)
	fill(&o.Actions, d.Actions)
	fill(&o.Mutations, d.Mutations)
	fill(&o.State, d.State)
	return o
}

// Tables holds one rendered table per descriptor kind. A kind the result
// does not carry is left empty.
type Tables struct {
	Props     string
	Events    string
	Slots     string
	Methods   string
	Computed  string
	Mixins    string
	Data      string
	Watch     string
	Getters   string
	Actions   string
	Mutations string
	State     string
}

const (
	missing    = "-"
	absentType = "—"
)

// Render renders every kind present in res.
func Render(res *docgen.Result, opts Options) Tables {
	var t Tables
	if res == nil {
		return t
	}
	opts = opts.withDefaults()

	if len(res.Props) > 0 {
		t.Props = table(opts.Props, len(res.Props), func(i int, col string) string {
			return propCell(res.Props[i], col)
		})
	}
	if len(res.Events) > 0 {
		t.Events = table(opts.Events, len(res.Events), func(i int, col string) string {
			ev := res.Events[i]
			switch col {
			case "Event Name":
				return ev.Name
			case "Description":
				return joinOr(ev.Description, " ")
			case "Parameters":
				return joinOr(ev.Params, " ")
			}
			return missing
		})
	}
	if len(res.Slots) > 0 {
		t.Slots = table(opts.Slots, len(res.Slots), func(i int, col string) string {
			s := res.Slots[i]
			switch col {
			case "Name":
				return s.Name
			case "Description":
				return textOr(s.Description)
			case "Default Slot Content":
				return textOr(s.BackerDesc)
			}
			return missing
		})
	}
	if len(res.Methods) > 0 {
		t.Methods = table(opts.Methods, len(res.Methods), func(i int, col string) string {
			m := res.Methods[i]
			return namedDocCell(col, "Method", m.Name, m.Description, m.Params)
		})
	}
	if len(res.Computed) > 0 {
		t.Computed = table(opts.Computed, len(res.Computed), func(i int, col string) string {
			c := res.Computed[i]
			switch col {
			case "Computed":
				return c.Name
			case "Type":
				return codeOr(c.Type)
			case "Description":
				return joinOr(c.Description, " ")
			case "From Store":
				if c.FromStore {
					return "Yes"
				}
				return "No"
			}
			return missing
		})
	}
	if len(res.Mixins) > 0 {
		t.Mixins = table(opts.Mixins, len(res.Mixins), func(i int, col string) string {
			m := res.Mixins[i]
			switch col {
			case "MixIn":
				return m.Name
			case "Source":
				return textOr(m.Source)
			}
			return missing
		})
	}
	if len(res.Data) > 0 {
		t.Data = table(opts.Data, len(res.Data), func(i int, col string) string {
			d := res.Data[i]
			return dataCell(col, d.Name, d.Type, d.Description, d.Default)
		})
	}
	if len(res.Watch) > 0 {
		t.Watch = table(opts.Watch, len(res.Watch), func(i int, col string) string {
			w := res.Watch[i]
			return namedDocCell(col, "Name", w.Name, w.Description, w.Params)
		})
	}
	if len(res.Getters) > 0 {
		t.Getters = table(opts.Getters, len(res.Getters), func(i int, col string) string {
			g := res.Getters[i]
			switch col {
			case "Getter":
				return g.Name
			case "Type":
				return codeOr(g.Type)
			case "Description":
				return joinOr(g.Description, " ")
			}
			return missing
		})
	}
	if len(res.Actions) > 0 {
		t.Actions = table(opts.Actions, len(res.Actions), func(i int, col string) string {
			a := res.Actions[i]
			return namedDocCell(col, "Action", a.Name, a.Description, a.Params)
		})
	}
	if len(res.Mutations) > 0 {
		t.Mutations = table(opts.Mutations, len(res.Mutations), func(i int, col string) string {
			m := res.Mutations[i]
			return namedDocCell(col, "Mutation", m.Name, m.Description, m.Params)
		})
	}
	if len(res.State) > 0 {
		t.State = table(opts.State, len(res.State), func(i int, col string) string {
			s := res.State[i]
			return dataCell(col, s.Name, s.Type, s.Description, s.Default)
		})
	}
	return t
}

func propCell(p docgen.Property, col string) string {
	switch col {
	case "Name":
		return p.Name
	case "Description":
		if len(p.Description) == 0 {
			return missing
		}
		desc := append(append([]string{}, p.Description...), p.ValidatorDesc...)
		return strings.Join(desc, " ")
	case "Type":
		switch {
		case len(p.TypeDesc) > 0:
			return strings.Join(p.TypeDesc, " ")
		case p.Type == nil:
			return absentType
		}
		names := p.Type.Names()
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = code(n)
		}
		return strings.Join(quoted, " / ")
	case "Required":
		if p.IsRequired() {
			return code("true")
		}
		return code("false")
	case "Default":
		switch {
		case len(p.DefaultDesc) > 0:
			return strings.Join(p.DefaultDesc, " ")
		case p.Default != nil && *p.Default != "":
			return *p.Default
		}
		return missing
	}
	return missing
}

// namedDocCell renders the columns shared by methods, watchers, actions and
// mutations.
func namedDocCell(col, nameCol, name string, desc, params []string) string {
	switch col {
	case nameCol:
		return name
	case "Description":
		return joinOr(desc, " ")
	case "Parameters":
		return joinOr(params, " ")
	}
	return missing
}

// dataCell renders the columns shared by data and state.
func dataCell(col, name, typ string, desc []string, def string) string {
	switch col {
	case "Name":
		return name
	case "Type":
		if typ == "" {
			return absentType
		}
		return code(typ)
	case "Description":
		return joinOr(desc, " ")
	case "Default":
		return textOr(def)
	}
	return missing
}

func table(cols []string, rows int, cell func(i int, col string) string) string {
	var b strings.Builder
	writeRow(&b, cols)
	b.WriteString(strings.Repeat("|---", len(cols)))
	b.WriteString("|\n")
	for i := 0; i < rows; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = cell(i, col)
		}
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	for _, c := range cells {
		b.WriteByte('|')
		b.WriteString(escapeCell(c))
	}
	b.WriteString("|\n")
}

// escapeCell keeps a cell on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func code(s string) string {
	return "`" + s + "`"
}

func codeOr(parts []string) string {
	if len(parts) == 0 {
		return missing
	}
	return code(strings.Join(parts, " "))
}

func joinOr(parts []string, sep string) string {
	if len(parts) == 0 {
		return missing
	}
	return strings.Join(parts, sep)
}

func textOr(s string) string {
	if s == "" {
		return missing
	}
	return s
}
