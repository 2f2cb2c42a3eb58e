// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"gobox/pkg/applet"
)

// Descriptor returns the registration record for the sh applet. The
// weight marks it heavyweight, so the mixed strategy binds it
// indirectly.
func Descriptor() applet.Descriptor {
	return applet.Descriptor{
		Name:     "sh",
		Synopsis: "interpret a shell script against the toolbox",
		Weight:   8,
		Factory:  func() applet.Applet { return shApplet{} },
	}
}

// knower is the optional invoker surface the handler uses to tell
// command-not-found apart from a command that ran and failed.
type knower interface {
	Known(name string) bool
}

// shApplet implements the sh utility.
type shApplet struct{}

// Name returns the applet name.
func (shApplet) Name() string { return "sh" }

// Synopsis returns the one-line description.
func (shApplet) Synopsis() string { return "interpret a shell script against the toolbox" }

// Run interprets a script taken from -c, from a script file operand,
// or from stdin. Remaining operands become the script's positional
// parameters; with -c the first one is the conventional $0 and is
// skipped. Scripts observe the invocation's environment, directory
// and streams; every simple command dispatches through the
// invocation's invoker.
func (s shApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("sh", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	command := fs.String("c", "", "read the script from the operand")
	errexit := fs.Bool("e", false, "exit on the first command failure")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("sh", "%v", err)
	}
	haveCommand := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "c" {
			haveCommand = true
		}
	})

	if inv.Invoker() == nil {
		return errors.New("sh: no invoker bound to the invocation")
	}

	prog, params, err := parseScript(inv, haveCommand, *command, fs.Args())
	if err != nil {
		return err
	}

	shellArgs := make([]string, 0, len(params)+2)
	if *errexit {
		shellArgs = append(shellArgs, "-e")
	}
	shellArgs = append(shellArgs, "--")
	shellArgs = append(shellArgs, params...)

	runner, err := interp.New(
		interp.Dir(inv.Dir),
		interp.Env(expand.ListEnviron(inv.Env.Strings()...)),
		interp.StdIO(inv.Stdin, inv.Stdout, inv.Stderr),
		interp.Params(shellArgs...),
		interp.ExecHandlers(dispatchHandler(inv)),
	)
	if err != nil {
		return fmt.Errorf("sh: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return applet.Exit(int(status))
		}
		return fmt.Errorf("sh: %w", err)
	}
	return nil
}

// parseScript selects the script source and parses it. Syntax errors
// are usage errors; an unreadable script file is a runtime failure.
func parseScript(inv *applet.Invocation, haveCommand bool, command string, operands []string) (*syntax.File, []string, error) {
	parser := syntax.NewParser()

	switch {
	case haveCommand:
		var params []string
		if len(operands) > 0 {
			params = operands[1:]
		}
		prog, err := parser.Parse(strings.NewReader(command), "sh")
		if err != nil {
			return nil, nil, applet.Usagef("sh", "%v", err)
		}
		return prog, params, nil

	case len(operands) > 0:
		path := operands[0]
		if !filepath.IsAbs(path) && inv.Dir != "" {
			path = filepath.Join(inv.Dir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("sh: %w", err)
		}
		prog, perr := parser.Parse(f, operands[0])
		cerr := f.Close()
		if perr != nil {
			return nil, nil, applet.Usagef("sh", "%v", perr)
		}
		if cerr != nil {
			return nil, nil, fmt.Errorf("sh: %s: %w", operands[0], cerr)
		}
		return prog, operands[1:], nil

	default:
		prog, err := parser.Parse(inv.Stdin, "sh")
		if err != nil {
			return nil, nil, applet.Usagef("sh", "%v", err)
		}
		return prog, nil, nil
	}
}

// dispatchHandler builds the interpreter's exec middleware: each
// simple command becomes a child invocation wired to the command's
// own position in the script (pipe ends, redirections, current
// directory, exported variables) and dispatches through parent's
// invoker. The default handler is never consulted, so no external
// process can run.
func dispatchHandler(parent *applet.Invocation) func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(_ interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return nil
			}
			hc := interp.HandlerCtx(ctx)
			iv := parent.Invoker()

			name := args[0]
			if kn, ok := iv.(knower); ok && !kn.Known(name) {
				fmt.Fprintf(hc.Stderr, "sh: %s: applet not found\n", name)
				return interp.NewExitStatus(127)
			}

			child := parent.Child(name, args[1:],
				applet.WithEnviron(exportedEnviron(hc.Env)),
				applet.WithDir(hc.Dir),
				applet.WithStdin(hc.Stdin),
				applet.WithStdout(hc.Stdout),
				applet.WithStderr(hc.Stderr),
			)
			out := iv.Invoke(ctx, child)
			if err := child.Release(); err != nil && out.Success() {
				fmt.Fprintf(hc.Stderr, "sh: %s: %v\n", name, err)
				return interp.NewExitStatus(1)
			}
			if !out.Success() && out.Diag != "" {
				fmt.Fprintln(hc.Stderr, out.Diag)
			}
			if out.Code == 0 {
				return nil
			}
			return interp.NewExitStatus(uint8(out.Code))
		}
	}
}

// exportedEnviron converts the interpreter's variable view at the
// command's position into the environment a child invocation sees:
// exported, set variables only.
func exportedEnviron(env expand.Environ) *applet.Environ {
	out := applet.NewEnviron(nil)
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Set && vr.Exported {
			out.Set(name, vr.Str)
		}
		return true
	})
	return out
}
