// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gobox/pkg/applet"
)

// envApplet implements the env utility.
type envApplet struct{}

func newEnv() applet.Applet { return envApplet{} }

// Name returns the applet name.
func (envApplet) Name() string { return "env" }

// Synopsis returns the one-line description.
func (envApplet) Synopsis() string { return "print the environment, optionally modified" }

// Run prints the invocation's environment as sorted KEY=value lines.
// Leading NAME=VALUE operands modify a private copy first; -i starts
// from an empty environment. Running a command is not supported, so
// any remaining operand is a usage error.
func (envApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	ignore := fs.Bool("i", false, "start with an empty environment")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("env", "%v", err)
	}

	env := inv.Env.Clone()
	if *ignore {
		env = applet.NewEnviron(nil)
	}

	operands := fs.Args()
	for len(operands) > 0 {
		k, v, ok := strings.Cut(operands[0], "=")
		if !ok || k == "" {
			return applet.Usagef("env", "running a command (%q) is not supported", operands[0])
		}
		env.Set(k, v)
		operands = operands[1:]
	}

	for _, kv := range env.Strings() {
		if _, err := fmt.Fprintln(inv.Stdout, kv); err != nil {
			return fmt.Errorf("env: %w", err)
		}
	}
	return nil
}
