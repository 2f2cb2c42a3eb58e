// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"fmt"
	"path"
	"strings"

	"gobox/pkg/applet"
)

// basenameApplet implements the basename utility.
type basenameApplet struct{}

func newBasename() applet.Applet { return basenameApplet{} }

// Name returns the applet name.
func (basenameApplet) Name() string { return "basename" }

// Synopsis returns the one-line description.
func (basenameApplet) Synopsis() string { return "strip directory and suffix from a path" }

// Run prints the final component of the operand. A second operand is
// a suffix to strip, unless stripping it would leave nothing.
func (basenameApplet) Run(_ context.Context, inv *applet.Invocation) error {
	operands := inv.Args[1:]
	if len(operands) == 0 {
		return applet.Usagef("basename", "missing operand")
	}
	if len(operands) > 2 {
		return applet.Usagef("basename", "extra operand %q", operands[2])
	}

	base := path.Base(operands[0])
	if len(operands) == 2 {
		suffix := operands[1]
		if suffix != "" && base != suffix && strings.HasSuffix(base, suffix) {
			base = base[:len(base)-len(suffix)]
		}
	}

	fmt.Fprintln(inv.Stdout, base)
	return nil
}
