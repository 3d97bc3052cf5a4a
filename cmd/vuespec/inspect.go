package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"

	"github.com/gnana997/vuespec/pkg/docgen"
	"github.com/gnana997/vuespec/pkg/render"
)

const maxWidth = 80

func newInspectCommand(g *globalFlags) *cobra.Command {
	var pf projectFlags
	var asJSON, asMarkdown bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print what one component documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asMarkdown {
				return fmt.Errorf("--json and --markdown are mutually exclusive")
			}
			cfg, logger, err := g.setup(cmd, &pf)
			if err != nil {
				return err
			}
			cfg.CachePath = ""
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			file := args[0]
			source, err := a.sources.Read(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			res, err := a.engine.ParseSource(source, file)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}

			out := cmd.OutOrStdout()
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case asMarkdown:
				fmt.Fprint(out, render.Document(name, res, cfg.Columns))
				return nil
			}
			printResultHuman(out, name, res)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the extraction result as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "print the markdown document")
	return cmd
}

// printResultHuman prints one table per descriptor kind the result carries.
func printResultHuman(w io.Writer, name string, res *docgen.Result) {
	if res.Component.Name != "" {
		name = res.Component.Name
	}
	header := name
	if res.Component.Style != "" {
		header += fmt.Sprintf("  [%s]", res.Component.Style)
	}
	if res.Component.Functional {
		header += "  [functional]"
	}
	fmt.Fprintln(w, header)

	if len(res.Component.Description) > 0 {
		fmt.Fprintln(w)
		printWrapped(w, strings.Join(res.Component.Description, " "), 0, maxWidth)
	}
	if res.IsEmpty() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Nothing documented")
		return
	}

	section := func(title string, headers []string, rows [][]string) {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, title)
		fmt.Fprint(w, table(headers, rows))
	}

	var rows [][]string
	for _, p := range res.Props {
		req := "no"
		if p.IsRequired() {
			req = "yes"
		}
		rows = append(rows, []string{p.Name, typeText(p.Type), req, deref(p.Default), lines(p.Description)})
	}
	section("Props", []string{"NAME", "TYPE", "REQ", "DEFAULT", "DESCRIPTION"}, rows)

	rows = nil
	for _, ev := range res.Events {
		label := ev.Name
		if ev.IsSync {
			label += " (sync)"
		}
		rows = append(rows, []string{label, lines(ev.Params), lines(ev.Description)})
	}
	section("Events", []string{"NAME", "PARAMETERS", "DESCRIPTION"}, rows)

	rows = nil
	for _, s := range res.Slots {
		label := s.Name
		if s.Scoped {
			label += " (scoped)"
		}
		rows = append(rows, []string{label, string(s.Origin), dash(s.Description), dash(s.BackerDesc)})
	}
	section("Slots", []string{"NAME", "FROM", "DESCRIPTION", "DEFAULT CONTENT"}, rows)

	rows = nil
	for _, m := range res.Methods {
		rows = append(rows, []string{m.Name, lines(m.Params), lines(m.Description)})
	}
	section("Methods", []string{"NAME", "PARAMETERS", "DESCRIPTION"}, rows)

	rows = nil
	for _, c := range res.Computed {
		store := ""
		if c.FromStore {
			store = "yes"
		}
		rows = append(rows, []string{c.Name, dash(strings.Join(c.Type, " | ")), lines(c.Description), dash(store)})
	}
	section("Computed", []string{"NAME", "TYPE", "DESCRIPTION", "FROM STORE"}, rows)

	rows = nil
	for _, m := range res.Mixins {
		rows = append(rows, []string{m.Name, dash(m.Source)})
	}
	section("MixIns", []string{"NAME", "SOURCE"}, rows)

	rows = nil
	for _, d := range res.Data {
		rows = append(rows, []string{d.Name, dash(d.Type), dash(d.Default), lines(d.Description)})
	}
	section("Data", []string{"NAME", "TYPE", "DEFAULT", "DESCRIPTION"}, rows)

	rows = nil
	for _, wt := range res.Watch {
		rows = append(rows, []string{wt.Name, lines(wt.Params), lines(wt.Description)})
	}
	section("Watch", []string{"NAME", "PARAMETERS", "DESCRIPTION"}, rows)

	rows = nil
	for _, gt := range res.Getters {
		rows = append(rows, []string{gt.Name, dash(strings.Join(gt.Type, " | ")), lines(gt.Description)})
	}
	section("Getters", []string{"NAME", "TYPE", "DESCRIPTION"}, rows)

	rows = nil
	for _, ac := range res.Actions {
		rows = append(rows, []string{ac.Name, lines(ac.Params), lines(ac.Description)})
	}
	section("Actions", []string{"NAME", "PARAMETERS", "DESCRIPTION"}, rows)

	rows = nil
	for _, mu := range res.Mutations {
		rows = append(rows, []string{mu.Name, lines(mu.Params), lines(mu.Description)})
	}
	section("Mutations", []string{"NAME", "PARAMETERS", "DESCRIPTION"}, rows)

	rows = nil
	for _, st := range res.State {
		rows = append(rows, []string{st.Name, dash(st.Type), dash(st.Default), lines(st.Description)})
	}
	section("State", []string{"NAME", "TYPE", "DEFAULT", "DESCRIPTION"}, rows)
}

// table renders rows as a left-aligned grid.
func table(headers []string, rows [][]string) string {
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(40)
	return t.Render("grid")
}

func typeText(t *docgen.PropType) string {
	if t == nil {
		return "-"
	}
	return dash(strings.Join(t.Names(), " | "))
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return dash(*s)
}

func lines(parts []string) string {
	return dash(strings.Join(parts, " "))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else if line == prefix {
			line += word
		} else {
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
