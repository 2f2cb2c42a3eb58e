// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gobox/pkg/applet"
)

// uniqApplet implements the uniq utility.
type uniqApplet struct{}

func newUniq() applet.Applet { return uniqApplet{} }

// Name returns the applet name.
func (uniqApplet) Name() string { return "uniq" }

// Synopsis returns the one-line description.
func (uniqApplet) Synopsis() string { return "filter adjacent duplicate lines" }

// Run collapses runs of equal adjacent lines from the first operand
// (stdin without operands). -c prefixes each line with its run
// length, -d keeps only duplicated lines, -u only unduplicated ones,
// -i compares case-insensitively.
func (uniqApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("uniq", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	showCount := fs.Bool("c", false, "prefix lines with occurrence count")
	duplicatesOnly := fs.Bool("d", false, "print only duplicated lines")
	uniqueOnly := fs.Bool("u", false, "print only unduplicated lines")
	ignoreCase := fs.Bool("i", false, "ignore case when comparing")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("uniq", "%v", err)
	}

	operands := fs.Args()
	if len(operands) > 1 {
		operands = operands[:1]
	}

	emit := func(line string, count int) {
		if (*duplicatesOnly && count <= 1) || (*uniqueOnly && count > 1) {
			return
		}
		if *showCount {
			fmt.Fprintf(inv.Stdout, "%7d %s\n", count, line)
			return
		}
		fmt.Fprintln(inv.Stdout, line)
	}

	return processFilesOrStdin(inv, operands, func(r io.Reader, name string, _, _ int) error {
		scanner := bufio.NewScanner(r)
		var group, groupKey string
		count := 0
		for scanner.Scan() {
			line := scanner.Text()
			key := line
			if *ignoreCase {
				key = strings.ToLower(line)
			}
			if count > 0 && key == groupKey {
				count++
				continue
			}
			if count > 0 {
				emit(group, count)
			}
			group, groupKey, count = line, key, 1
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("uniq: %s: %w", name, err)
		}
		if count > 0 {
			emit(group, count)
		}
		return nil
	})
}
