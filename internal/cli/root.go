// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"gobox/internal/config"
	"gobox/internal/issue"
	"gobox/pkg/box"
	"gobox/pkg/mux"
)

// Run is the process entry used by cmd/gobox. It loads configuration,
// seals the toolbox, and applies the multiplexer policy to argv: a
// resolvable utility name dispatches in-process, anything else falls
// through to the housekeeping commands. The returned value is the
// process exit code; Run never calls os.Exit.
func Run(args []string) int {
	cfg := loadConfig(os.Stderr)
	logger := newLogger(os.Stderr, cfg.LogLevel)

	b, err := BuildToolbox(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("gobox: ")+formatErrorForDisplay(err, false))
		if guide, renderErr := issue.Get(issue.ToolboxConfigId).Render("dark"); renderErr == nil {
			fmt.Fprintln(os.Stderr, guide)
		}
		return 1
	}

	if _, ok := mux.Resolve(b, args, mux.DefaultSuffixes); ok {
		return mux.Main(mux.Options{Box: b, Args: args, Logger: logger})
	}

	return Execute(context.Background(), b, args[1:])
}

// loadConfig reads the build configuration, falling back to defaults
// with a warning: a broken config file must not take every utility
// down with it.
func loadConfig(stderr io.Writer) *config.Config {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{})
	if err != nil {
		fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, false))
		return config.DefaultConfig()
	}
	return cfg
}

// Execute runs the housekeeping command surface and maps its result
// to an exit code. ExitError codes pass through; other failures are 1.
func Execute(ctx context.Context, b *box.Box, args []string) int {
	root := newRootCmd(b)
	root.SetArgs(args)

	err := fang.Execute(ctx, root,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return 1
	}
	return 0
}

// newRootCmd assembles the cobra tree for one execution. Building it
// per call keeps the package free of mutable command state.
func newRootCmd(b *box.Box) *cobra.Command {
	root := &cobra.Command{
		Use:   "gobox",
		Short: "A multi-call utility toolbox",
		Long: TitleStyle.Render("gobox") + SubtitleStyle.Render(" - a multi-call utility toolbox") + `

One binary, many utilities. Invoke a utility by symlinking its name
to the gobox executable, or pass the name as the first argument;
everything after the name goes to the utility verbatim.

` + SubtitleStyle.Render("Examples:") + `
  gobox echo hello          Run the echo applet
  gobox sh -c 'echo hi|wc'  Run a script against the toolbox
  gobox list                Show every compiled-in applet
  gobox install ~/bin       Symlink every applet into ~/bin`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListCmd(b))
	root.AddCommand(newInstallCmd(b))
	root.AddCommand(newVersionCmd())
	return root
}

// formatErrorForDisplay renders err for the terminal: actionable
// errors bring their context and suggestions, everything else prints
// plainly. Verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
