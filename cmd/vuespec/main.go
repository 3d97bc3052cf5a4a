// Command vuespec extracts documentation from Vue components.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

// globalFlags are available to every command.
type globalFlags struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "vuespec",
		Short:         "Extract documentation from Vue components",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.configPath, "config", defaultConfigPath, "project config file")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newGenCommand(&g),
		newScanCommand(&g),
		newInspectCommand(&g),
		newServeCommand(&g),
		newWatchCommand(&g),
		newCallsCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "vuespec %s\n", version)
			},
		},
	)
	return root
}

// setup loads the project config, overlays flags and builds the logger.
func (g *globalFlags) setup(cmd *cobra.Command, pf *projectFlags) (ProjectConfig, *slog.Logger, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := loadProjectConfig(g.configPath, required)
	if err != nil {
		return cfg, nil, err
	}
	if pf != nil {
		pf.apply(cmd, &cfg)
	}
	return cfg, newLogger(cfg.LogLevel, g.debug, cmd.ErrOrStderr()), nil
}

// rootArg returns the project root argument, "." when absent.
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
