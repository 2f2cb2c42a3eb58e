// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"regexp"

	"gobox/pkg/applet"
)

// grepApplet implements the grep utility.
type grepApplet struct{}

func newGrep() applet.Applet { return grepApplet{} }

// Name returns the applet name.
func (grepApplet) Name() string { return "grep" }

// Synopsis returns the one-line description.
func (grepApplet) Synopsis() string { return "print lines matching a pattern" }

// Run matches each input line against the pattern operand (Go regexp
// syntax). -i ignores case, -v inverts the selection, -n prefixes
// line numbers, -q suppresses output. File names prefix matches when
// more than one operand is searched. The grep exit contract holds: no
// matching line anywhere yields exit status 1, silently.
func (grepApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("grep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	ignoreCase := fs.Bool("i", false, "ignore case distinctions")
	invert := fs.Bool("v", false, "select non-matching lines")
	lineNumbers := fs.Bool("n", false, "prefix matches with line numbers")
	quiet := fs.Bool("q", false, "suppress output, report via exit status")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("grep", "%v", err)
	}

	operands := fs.Args()
	if len(operands) == 0 {
		return applet.Usagef("grep", "missing pattern")
	}
	pattern := operands[0]
	if *ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return applet.Usagef("grep", "invalid pattern: %v", err)
	}

	files := operands[1:]
	showFilename := len(files) > 1
	matched := false

	err = processFilesOrStdin(inv, files, func(r io.Reader, name string, _, _ int) error {
		scanner := bufio.NewScanner(r)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			hit := re.MatchString(line)
			if *invert {
				hit = !hit
			}
			if !hit {
				continue
			}
			matched = true
			if *quiet {
				continue
			}
			prefix := ""
			if showFilename && name != "-" {
				prefix = name + ":"
			}
			if *lineNumbers {
				prefix += fmt.Sprintf("%d:", lineNum)
			}
			fmt.Fprintln(inv.Stdout, prefix+line)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("grep: %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !matched {
		return applet.Exit(1)
	}
	return nil
}
