// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gobox/pkg/applet"
)

// pwdApplet implements the pwd utility.
type pwdApplet struct{}

func newPwd() applet.Applet { return pwdApplet{} }

// Name returns the applet name.
func (pwdApplet) Name() string { return "pwd" }

// Synopsis returns the one-line description.
func (pwdApplet) Synopsis() string { return "print the working directory" }

// Run prints the invocation's working directory. The POSIX -L and -P
// flags are accepted; the directory is reported as carried by the
// invocation either way.
func (pwdApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("pwd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Bool("L", false, "logical path")
	fs.Bool("P", false, "physical path")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("pwd", "%v", err)
	}

	if inv.Dir == "" {
		return errors.New("pwd: working directory not set")
	}
	if _, err := fmt.Fprintln(inv.Stdout, inv.Dir); err != nil {
		return fmt.Errorf("pwd: %w", err)
	}
	return nil
}
