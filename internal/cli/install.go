// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"gobox/internal/issue"
	"gobox/pkg/box"
	"gobox/pkg/platform"
)

// newInstallCmd builds the command that symlinks every registered
// applet name to the gobox executable, so each utility becomes
// invocable under its own name (the multi-call aliasing surface).
func newInstallCmd(b *box.Box) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install DIR",
		Short: "Symlink every applet into DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := os.Executable()
			if err != nil {
				return &ExitError{Code: 1, Err: installError(err, args[0],
					"Could not resolve the running executable's path")}
			}

			n, err := installLinks(exe, args[0], b.Names(), force)
			if err != nil {
				return &ExitError{Code: 1, Err: installError(err, args[0],
					"Re-run with --force to replace existing links",
					"Check that the directory exists and is writable")}
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(
				fmt.Sprintf("installed %d links in %s", n, args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace existing links")
	return cmd
}

// installLinks creates one symlink per name in dir, pointing at exe.
// It stops on the first failure and reports how many links were
// created before it; an existing entry fails unless force is set.
// Windows device names are refused up front: a link named NUL or COM1
// would be unreachable there.
func installLinks(exe, dir string, names []string, force bool) (int, error) {
	if runtime.GOOS == platform.Windows {
		for _, name := range names {
			if platform.IsWindowsReservedName(name) {
				return 0, fmt.Errorf("applet name %q is a reserved Windows device name", name)
			}
		}
	}
	for i, name := range names {
		link := filepath.Join(dir, name)
		if force {
			if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return i, fmt.Errorf("replace %s: %w", link, err)
			}
		}
		if err := os.Symlink(exe, link); err != nil {
			return i, fmt.Errorf("link %s: %w", link, err)
		}
	}
	return len(names), nil
}

func installError(err error, dir string, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation("install applet links").
		WithResource(dir).
		WithSuggestions(suggestions...).
		Wrap(err).
		BuildError()
}
