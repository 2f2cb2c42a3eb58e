// SPDX-License-Identifier: MPL-2.0

package mux

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"gobox/pkg/applet"
	"gobox/pkg/box"
)

// DefaultSignals are forwarded cooperatively to the root invocation.
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Options configures one process entry. Zero fields fall back to the
// real process state, so a production main needs only the Box.
type Options struct {
	// Box is the toolbox to dispatch into. Required.
	Box *box.Box
	// Args is the argument vector. Nil means os.Args.
	Args []string
	// Environ seeds the root environment. Nil means os.Environ().
	Environ []string
	// Dir is the working directory. Empty means os.Getwd().
	Dir string
	// Stdin, Stdout, Stderr are the process streams. Nil means the
	// real ones.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Suffixes are stripped from the argv[0] basename. Nil means
	// DefaultSuffixes; an empty non-nil slice strips nothing.
	Suffixes []string
	// Signals are delivered cooperatively. Nil means DefaultSignals;
	// an empty non-nil slice disables signal handling.
	Signals []os.Signal
	// Logger receives resolution diagnostics at debug level. Nil
	// means the process default logger.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Args == nil {
		o.Args = os.Args
	}
	if o.Environ == nil {
		o.Environ = os.Environ()
	}
	if o.Dir == "" {
		o.Dir, _ = os.Getwd()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Suffixes == nil {
		o.Suffixes = DefaultSuffixes
	}
	if o.Signals == nil {
		o.Signals = DefaultSignals
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Main resolves, dispatches, and maps the outcome to a process exit
// code. Exactly one root invocation is created per call; it is
// released on every path. Main never calls os.Exit.
func Main(opts Options) int {
	opts = opts.withDefaults()
	if opts.Box == nil {
		fmt.Fprintln(opts.Stderr, "mux: no toolbox configured")
		return applet.DefaultCodeMap.Runtime
	}

	res, ok := Resolve(opts.Box, opts.Args, opts.Suffixes)
	if !ok {
		return usageFailure(opts)
	}
	opts.Logger.Debug("resolved utility", "name", res.Name, "shifted", res.Shifted)

	inv := applet.NewInvocation(res.Name, res.Args[1:],
		applet.WithEnviron(applet.NewEnviron(opts.Environ)),
		applet.WithDir(opts.Dir),
		applet.WithStdin(opts.Stdin),
		applet.WithStdout(opts.Stdout),
		applet.WithStderr(opts.Stderr),
		applet.WithLatency(opts.Box.Latency()),
		applet.WithInvoker(opts.Box.Bridge()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if len(opts.Signals) > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, opts.Signals...)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				opts.Logger.Debug("signal received", "signal", sig)
				inv.NoteSignal(sig)
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	binding, _ := opts.Box.Lookup(res.Name)
	out := binding.Invoke(ctx, inv)
	if err := inv.Release(); err != nil && out.Success() {
		out = opts.Box.Codes().Outcome(inv, err)
	}

	if out.Diag != "" && !out.Success() {
		fmt.Fprintf(opts.Stderr, "%s\n", out.Diag)
	}
	return out.Code
}

// usageFailure reports an invocation that addresses no applet: either
// nothing to resolve at all, or an unknown name. The diagnostic
// carries the registered names as a hint.
func usageFailure(opts Options) int {
	prog := "mux"
	if len(opts.Args) > 0 {
		prog = stripSuffixes(filepath.Base(opts.Args[0]), opts.Suffixes)
	}

	if len(opts.Args) < 2 {
		fmt.Fprintf(opts.Stderr, "usage: %s UTILITY [ARG...]\n", prog)
		fmt.Fprintf(opts.Stderr, "registered: %s\n", strings.Join(opts.Box.Names(), ", "))
		return opts.Box.Codes().Usage
	}

	err := opts.Box.UnknownUtility(opts.Args[1])
	fmt.Fprintf(opts.Stderr, "%s: %s\n", prog, err.Error())
	return opts.Box.Codes().Usage
}
