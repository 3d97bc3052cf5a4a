package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/vuespec/pkg/catalog"
	"github.com/gnana997/vuespec/pkg/indexer"
	mcpserver "github.com/gnana997/vuespec/pkg/mcp"
	"github.com/gnana997/vuespec/pkg/mcplog"
)

func newGenCommand(g *globalFlags) *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:   "gen [root]",
		Short: "Write one markdown document per component",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd, &pf)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			docs, stats, err := a.extract(cmd.Context(), rootArg(args))
			if err != nil {
				return err
			}
			written := 0
			for _, d := range docs {
				if _, err := a.writeMarkdown(d); err != nil {
					return err
				}
				written++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents to %s (%d failed)\n", written, cfg.OutDir, stats.FilesFailed)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newScanCommand(g *globalFlags) *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Write the JSON catalog of every component under root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd, &pf)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			root := rootArg(args)
			docs, stats, err := a.extract(cmd.Context(), root)
			if err != nil {
				return err
			}
			cat, err := a.buildCatalog(root, docs)
			if err != nil {
				return err
			}
			if err := a.writeCatalog(cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cataloged %d components in %d categories to %s (%d cached, %d failed)\n",
				len(cat.Components), len(cat.Categories), cfg.CatalogPath, stats.FilesCached, stats.FilesFailed)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newWatchCommand(g *globalFlags) *cobra.Command {
	var pf projectFlags
	var debounce int
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Regenerate documents and the catalog as components change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd, &pf)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			root := rootArg(args)
			p, err := newProject(ctx, a, root)
			if err != nil {
				return err
			}
			for _, d := range p.snapshot() {
				if _, err := a.writeMarkdown(d); err != nil {
					return err
				}
			}
			if err := p.publish(); err != nil {
				return err
			}

			opts := indexer.DefaultWatchOptions()
			if debounce > 0 {
				opts.DebounceMs = debounce
			}
			w, err := indexer.NewWatcher(a.scanner, root, cfg.scanConfig(), opts, func(c indexer.Change) {
				if c.Docs != nil {
					if out, err := a.writeMarkdown(c.Docs); err != nil {
						logger.Warn("failed to write document", "file", c.RelPath, "error", err)
					} else {
						logger.Info("document updated", "file", c.RelPath, "out", out)
					}
				} else {
					a.removeMarkdown(c.RelPath)
				}
				p.apply(c)
				if err := p.publish(); err != nil {
					logger.Warn("failed to update catalog", "error", err)
				}
			}, logger)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s, press Ctrl+C to stop\n", root)
			<-ctx.Done()
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().IntVar(&debounce, "debounce", 0, "milliseconds a file must settle before it is re-extracted")
	return cmd
}

func newServeCommand(g *globalFlags) *cobra.Command {
	var pf projectFlags
	var (
		logFile string
		root    string
		watch   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog to agents over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup(cmd, &pf)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			callLog, err := mcplog.NewLogger(logFile)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer func() { _ = callLog.Close() }()
			}

			var qs *catalog.QueryService
			var p *project
			if root != "" {
				p, err = newProject(cmd.Context(), a, root)
				if err != nil {
					return err
				}
				cat, err := p.catalog()
				if err != nil {
					return err
				}
				qs = catalog.NewQueryService(cat, cat.BuildIndex())
			} else {
				qs, err = catalog.LoadAndQuery(cfg.CatalogPath)
				if err != nil {
					return fmt.Errorf("failed to load catalog (run \"vuespec scan\" first or pass --root): %w", err)
				}
			}

			srv := mcpserver.NewServer(qs, a.engine, callLog)
			srv.SetRenderOptions(cfg.Columns)

			if watch {
				if p == nil {
					return fmt.Errorf("--watch requires --root")
				}
				w, err := indexer.NewWatcher(a.scanner, root, cfg.scanConfig(), indexer.DefaultWatchOptions(), func(c indexer.Change) {
					p.apply(c)
					cat, err := p.catalog()
					if err != nil {
						logger.Warn("catalog rebuild failed", "error", err)
						return
					}
					srv.Reload(catalog.NewQueryService(cat, cat.BuildIndex()))
				}, logger)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer func() { _ = w.Stop() }()
			}

			logger.Info("serving MCP on stdio", "components", len(qs.Catalog.Components))
			return srv.ServeStdio()
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "append every tool call to this JSONL file")
	cmd.Flags().StringVar(&root, "root", "", "scan this project at startup instead of loading the catalog file")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep the served catalog current (requires --root)")
	return cmd
}

func newCallsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "calls <log-file>",
		Short: "Summarize an MCP tool call log written by serve --log-file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open call log: %w", err)
			}
			defer f.Close()

			entries, err := mcplog.ReadEntries(f)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tool calls logged")
				return nil
			}

			var rows [][]string
			for _, s := range mcplog.Summarize(entries) {
				rows = append(rows, []string{
					s.Tool,
					strconv.Itoa(s.Calls),
					strconv.Itoa(s.Errors),
					fmt.Sprintf("%.1f", s.AvgDurationMs),
					fmt.Sprint(s.MaxDurationMs),
					fmt.Sprint(s.TokensEst),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), table([]string{"TOOL", "CALLS", "ERRORS", "AVG MS", "MAX MS", "TOKENS"}, rows))
			return nil
		},
	}
}

// project holds the live documentation of a watched root.
type project struct {
	a    *app
	root string

	mu   sync.Mutex
	docs map[string]*indexer.FileDocs
}

func newProject(ctx context.Context, a *app, root string) (*project, error) {
	docs, _, err := a.extract(ctx, root)
	if err != nil {
		return nil, err
	}
	p := &project{a: a, root: root, docs: make(map[string]*indexer.FileDocs, len(docs))}
	for _, d := range docs {
		p.docs[d.RelPath] = d
	}
	return p, nil
}

func (p *project) apply(c indexer.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.Docs == nil {
		delete(p.docs, c.RelPath)
		return
	}
	p.docs[c.RelPath] = c.Docs
}

func (p *project) snapshot() []*indexer.FileDocs {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*indexer.FileDocs, 0, len(p.docs))
	for _, d := range p.docs {
		out = append(out, d)
	}
	return out
}

func (p *project) catalog() (*catalog.Catalog, error) {
	return p.a.buildCatalog(p.root, p.snapshot())
}

// publish rebuilds the catalog and writes it to disk.
func (p *project) publish() error {
	cat, err := p.catalog()
	if err != nil {
		return err
	}
	return p.a.writeCatalog(cat)
}
