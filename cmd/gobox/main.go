// SPDX-License-Identifier: MPL-2.0

// Command gobox is the reference multi-call binary: every applet in
// the default set, selectable by symlink name or first argument, plus
// the housekeeping commands.
package main

import (
	"os"

	"gobox/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
