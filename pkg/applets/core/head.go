// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gobox/pkg/applet"
)

// headApplet implements the head utility.
type headApplet struct{}

func newHead() applet.Applet { return headApplet{} }

// Name returns the applet name.
func (headApplet) Name() string { return "head" }

// Synopsis returns the one-line description.
func (headApplet) Synopsis() string { return "output the first lines of files" }

// Run outputs the first -n lines (default 10) or -c bytes of each
// operand. With more than one file each chunk is preceded by a
// "==> name <==" header; -v forces headers, -q suppresses them.
func (headApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("head", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	lineCount := fs.Int("n", 10, "number of lines")
	byteCount := fs.Int("c", 0, "number of bytes")
	quiet := fs.Bool("q", false, "never print file headers")
	verbose := fs.Bool("v", false, "always print file headers")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("head", "%v", err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["n"] && set["c"] {
		return applet.Usagef("head", "options -n and -c are exclusive")
	}
	if *lineCount < 0 {
		return applet.Usagef("head", "invalid line count %d", *lineCount)
	}
	if *byteCount < 0 {
		return applet.Usagef("head", "invalid byte count %d", *byteCount)
	}

	return processFilesOrStdin(inv, fs.Args(), func(r io.Reader, name string, index, total int) error {
		if (total > 1 || *verbose) && !*quiet {
			if index > 0 {
				fmt.Fprintln(inv.Stdout)
			}
			fmt.Fprintf(inv.Stdout, "==> %s <==\n", name)
		}
		if set["c"] {
			return headBytes(inv.Stdout, r, int64(*byteCount))
		}
		return headLines(inv.Stdout, r, *lineCount)
	})
}

// headLines copies the first n lines preserving the input's bytes:
// an unterminated final line stays unterminated.
func headLines(out io.Writer, in io.Reader, n int) error {
	reader := bufio.NewReader(in)
	for range n {
		line, err := reader.ReadString('\n')
		if line != "" {
			if _, werr := io.WriteString(out, line); werr != nil {
				return fmt.Errorf("head: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("head: %w", err)
		}
	}
	return nil
}

// headBytes copies the first n bytes.
func headBytes(out io.Writer, in io.Reader, n int64) error {
	if _, err := io.CopyN(out, in, n); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("head: %w", err)
	}
	return nil
}
