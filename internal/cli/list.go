// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gobox/pkg/box"
)

// newListCmd builds the command that enumerates the toolbox. The
// output is the runtime-visible reflection of the build configuration:
// exactly the applets compiled in, nothing else.
func newListCmd(b *box.Box) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every applet registered in this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if plain {
				for _, name := range b.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			fmt.Fprintln(out, TitleStyle.Render("gobox")+SubtitleStyle.Render(
				fmt.Sprintf(" - %d applets, %s dispatch", len(b.Names()), b.Strategy())))
			for _, binding := range b.Bindings() {
				fmt.Fprintf(out, "  %s %s %s\n",
					CmdStyle.Render(fmt.Sprintf("%-10s", binding.Name())),
					SubtitleStyle.Render(fmt.Sprintf("%-9s", binding.Strategy().String())),
					binding.Synopsis(),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print bare names, one per line")
	return cmd
}
