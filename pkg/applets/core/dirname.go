// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"fmt"
	"path"

	"gobox/pkg/applet"
)

// dirnameApplet implements the dirname utility.
type dirnameApplet struct{}

func newDirname() applet.Applet { return dirnameApplet{} }

// Name returns the applet name.
func (dirnameApplet) Name() string { return "dirname" }

// Synopsis returns the one-line description.
func (dirnameApplet) Synopsis() string { return "strip the last component from paths" }

// Run prints each operand with its final path component removed.
func (dirnameApplet) Run(_ context.Context, inv *applet.Invocation) error {
	operands := inv.Args[1:]
	if len(operands) == 0 {
		return applet.Usagef("dirname", "missing operand")
	}

	for _, p := range operands {
		fmt.Fprintln(inv.Stdout, path.Dir(p))
	}
	return nil
}
