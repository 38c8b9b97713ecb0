// Package cli implements the workspaced command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/server"
)

// app carries state shared by subcommands after the persistent pre-run
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	version string
	out     io.Writer

	logLevel string
	dev      bool
	format   string
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	return newRootCmd(version, os.Stdout).ExecuteContext(ctx)
}

func newRootCmd(version string, out io.Writer) *cobra.Command {
	a := &app{version: version, out: out}

	rootCmd := &cobra.Command{
		Use:   "workspaced",
		Short: "Workspace file engine",
		Long: `workspaced serves the workspace file engine over HTTP and exposes
its search, walk and command surface on the command line.

Configuration is read from the environment (see WORKSPACE_*, STORE_FORMAT,
SEARCH_*); flags override the logging settings.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.dev, "dev", false, "development logging")
	rootCmd.PersistentFlags().StringVar(&a.format, "store-format", "", "persistence format (json, toml, yaml)")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newWalkCmd(a))
	rootCmd.AddCommand(newExecCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = a.dev
	}
	if cmd.Flags().Changed("store-format") {
		cfg.Store.Format = a.format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// backend wires the engine for one command invocation; the caller closes it
func (a *app) backend() (*server.Backend, error) {
	return server.NewBackend(a.cfg, a.logger, a.version)
}

func (a *app) printJSON(v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// absArg makes a command line path absolute against the working directory
func absArg(raw string) (string, error) {
	if raw == "" {
		raw = "."
	}
	if raw == "~" || len(raw) > 1 && raw[:2] == "~/" {
		return raw, nil
	}
	return filepath.Abs(raw)
}
