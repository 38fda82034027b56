// Package cli wires the gantta commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/logger"
)

// app is the state shared by the commands of one invocation.
type app struct {
	configPath string
	verbose    bool

	log *zap.Logger
	cfg *config.Config
}

// config loads the configuration on first use, so commands that only write it do not
// fail on an invalid file.
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) logger() *zap.Logger { return logger.OrNop(a.log) }

// RootCmd builds the gantta command tree.
func RootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gantta",
		Short: "Turn task spreadsheets into Gantt charts",
		Long: `gantta reads a table of tasks (CSV, XLSX or Org) with a category, a name, a start
and an end date, and renders it as SVG, HTML, PDF, CSV, PowerPoint, Word or Google
Calendar events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(a.verbose)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger().Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default ~/.config/gantta/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	root.AddCommand(
		renderCmd(a),
		inspectCmd(a),
		templateCmd(a),
		demoCmd(a),
		publishCmd(a),
		authCmd(a),
		setCalendarCmd(a),
	)
	return root
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := RootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, ErrUsage) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
	}
	return ExitCode(err)
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
