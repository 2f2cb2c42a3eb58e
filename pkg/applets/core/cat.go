// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gobox/pkg/applet"
)

// catApplet implements the cat utility.
type catApplet struct{}

func newCat() applet.Applet { return catApplet{} }

// Name returns the applet name.
func (catApplet) Name() string { return "cat" }

// Synopsis returns the one-line description.
func (catApplet) Synopsis() string { return "concatenate files to standard output" }

// Run streams each file operand to stdout, stdin when there are no
// operands or where the operand is "-". The POSIX -u flag is accepted
// and ignored; output is unbuffered either way.
func (catApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("cat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Bool("u", false, "unbuffered output (always on)")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("cat", "%v", err)
	}

	return processFilesOrStdin(inv, fs.Args(), func(r io.Reader, name string, _, _ int) error {
		if _, err := io.Copy(inv.Stdout, r); err != nil {
			return fmt.Errorf("cat: %s: %w", name, err)
		}
		return nil
	})
}
