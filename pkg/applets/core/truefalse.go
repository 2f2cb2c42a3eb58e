// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"

	"gobox/pkg/applet"
)

type (
	// trueApplet implements the true utility.
	trueApplet struct{}
	// falseApplet implements the false utility.
	falseApplet struct{}
)

func newTrue() applet.Applet  { return trueApplet{} }
func newFalse() applet.Applet { return falseApplet{} }

// Name returns the applet name.
func (trueApplet) Name() string { return "true" }

// Synopsis returns the one-line description.
func (trueApplet) Synopsis() string { return "do nothing, successfully" }

// Run ignores all arguments and succeeds.
func (trueApplet) Run(context.Context, *applet.Invocation) error {
	return nil
}

// Name returns the applet name.
func (falseApplet) Name() string { return "false" }

// Synopsis returns the one-line description.
func (falseApplet) Synopsis() string { return "do nothing, unsuccessfully" }

// Run ignores all arguments and reports exit status 1 with no output.
func (falseApplet) Run(context.Context, *applet.Invocation) error {
	return applet.Exit(1)
}
