// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gobox/pkg/applet"
)

// teeApplet implements the tee utility.
type teeApplet struct{}

func newTee() applet.Applet { return teeApplet{} }

// Name returns the applet name.
func (teeApplet) Name() string { return "tee" }

// Synopsis returns the one-line description.
func (teeApplet) Synopsis() string { return "copy stdin to stdout and files" }

// Run copies stdin to stdout and to every file operand, created or
// truncated unless -a appends. Relative operands resolve against the
// invocation's working directory.
func (teeApplet) Run(_ context.Context, inv *applet.Invocation) (err error) {
	fs := flag.NewFlagSet("tee", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	appendMode := fs.Bool("a", false, "append to files instead of truncating")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("tee", "%v", err)
	}

	openFlags := os.O_CREATE | os.O_WRONLY
	if *appendMode {
		openFlags |= os.O_APPEND
	} else {
		openFlags |= os.O_TRUNC
	}

	writers := []io.Writer{inv.Stdout}
	var files []*os.File
	for _, name := range fs.Args() {
		path := name
		if !filepath.IsAbs(path) && inv.Dir != "" {
			path = filepath.Join(inv.Dir, path)
		}
		f, openErr := os.OpenFile(path, openFlags, 0o644)
		if openErr != nil {
			for _, opened := range files {
				_ = opened.Close()
			}
			return fmt.Errorf("tee: %w", openErr)
		}
		files = append(files, f)
		writers = append(writers, f)
	}

	defer func() {
		for _, f := range files {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("tee: %w", closeErr)
			}
		}
	}()

	if _, copyErr := io.Copy(io.MultiWriter(writers...), inv.Stdin); copyErr != nil {
		return fmt.Errorf("tee: %w", copyErr)
	}
	return nil
}
