// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"fmt"
	"runtime"

	"gobox/pkg/applet"
)

// archApplet implements the arch utility.
type archApplet struct{}

func newArch() applet.Applet { return archApplet{} }

// Name returns the applet name.
func (archApplet) Name() string { return "arch" }

// Synopsis returns the one-line description.
func (archApplet) Synopsis() string { return "print the machine architecture" }

// Run prints the machine hardware name the way uname -m reports it.
func (archApplet) Run(_ context.Context, inv *applet.Invocation) error {
	if len(inv.Args) > 1 {
		return applet.Usagef("arch", "extra operand %q", inv.Args[1])
	}
	_, err := fmt.Fprintln(inv.Stdout, machineName(runtime.GOARCH))
	if err != nil {
		return fmt.Errorf("arch: %w", err)
	}
	return nil
}

// machineName translates a Go architecture name into the conventional
// uname -m spelling.
func machineName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i386"
	default:
		return goarch
	}
}
