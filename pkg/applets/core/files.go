// SPDX-License-Identifier: MPL-2.0

package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gobox/pkg/applet"
)

// fileProcessor handles one input stream. name is the operand as
// given ("-" for stdin), index/total locate it among the operands
// (0/0 when reading stdin because no operands were given).
type fileProcessor func(r io.Reader, name string, index, total int) error

// processFilesOrStdin runs fn over each file operand, or over stdin
// when there are none. The operand "-" means stdin wherever it
// appears. Relative paths resolve against the invocation's working
// directory.
func processFilesOrStdin(inv *applet.Invocation, operands []string, fn fileProcessor) error {
	if len(operands) == 0 {
		return fn(inv.Stdin, "-", 0, 0)
	}

	total := len(operands)
	for i, name := range operands {
		if name == "-" {
			if err := fn(inv.Stdin, name, i, total); err != nil {
				return err
			}
			continue
		}
		if err := processFile(inv, name, func(f *os.File) error {
			return fn(f, name, i, total)
		}); err != nil {
			return err
		}
	}
	return nil
}

// processFile opens one operand and aggregates the close error via
// the named return: a successful processor never hides a failed
// close.
func processFile(inv *applet.Invocation, name string, fn func(*os.File) error) (err error) {
	path := name
	if !filepath.IsAbs(path) && inv.Dir != "" {
		path = filepath.Join(inv.Dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", inv.Name(), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%s: %w", inv.Name(), closeErr)
		}
	}()

	return fn(f)
}
