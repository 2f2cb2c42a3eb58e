// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"fmt"
	"strings"

	"gobox/pkg/applet"
)

// echoApplet implements the echo utility.
type echoApplet struct{}

func newEcho() applet.Applet { return echoApplet{} }

// Name returns the applet name.
func (echoApplet) Name() string { return "echo" }

// Synopsis returns the one-line description.
func (echoApplet) Synopsis() string { return "write operands to standard output" }

// Run writes the operands separated by spaces and followed by a
// newline. A leading -n suppresses the newline. Everything else is
// printed literally; echo has no error cases of its own.
func (echoApplet) Run(_ context.Context, inv *applet.Invocation) error {
	operands := inv.Args[1:]
	newline := true
	if len(operands) > 0 && operands[0] == "-n" {
		newline = false
		operands = operands[1:]
	}

	if _, err := fmt.Fprint(inv.Stdout, strings.Join(operands, " ")); err != nil {
		return fmt.Errorf("echo: %w", err)
	}
	if newline {
		if _, err := fmt.Fprintln(inv.Stdout); err != nil {
			return fmt.Errorf("echo: %w", err)
		}
	}
	return nil
}
