// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gobox/pkg/applet"
)

// sortApplet implements the sort utility.
type sortApplet struct{}

func newSort() applet.Applet { return sortApplet{} }

// Name returns the applet name.
func (sortApplet) Name() string { return "sort" }

// Synopsis returns the one-line description.
func (sortApplet) Synopsis() string { return "sort lines of text" }

// Run gathers every line from the operands (stdin without operands),
// orders them, and prints the result. -r reverses, -n compares by
// leading numeric value, -f folds case, -b ignores leading blanks,
// -u drops adjacent duplicates after sorting.
func (sortApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reverse := fs.Bool("r", false, "reverse the comparison order")
	numeric := fs.Bool("n", false, "compare by numeric value")
	unique := fs.Bool("u", false, "output only the first of equal lines")
	foldCase := fs.Bool("f", false, "fold case when comparing")
	ignoreBlanks := fs.Bool("b", false, "ignore leading blanks")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("sort", "%v", err)
	}

	var lines []string
	err := processFilesOrStdin(inv, fs.Args(), func(r io.Reader, name string, _, _ int) error {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("sort: %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	key := func(s string) string {
		if *ignoreBlanks {
			s = strings.TrimLeft(s, " \t")
		}
		if *foldCase {
			s = strings.ToLower(s)
		}
		return s
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := key(lines[i]), key(lines[j])
		var less bool
		if *numeric {
			less = numericPrefix(a) < numericPrefix(b)
		} else {
			less = a < b
		}
		if *reverse {
			return !less
		}
		return less
	})

	prev, first := "", true
	for _, line := range lines {
		if *unique {
			k := key(line)
			if !first && k == prev {
				continue
			}
			prev, first = k, false
		}
		fmt.Fprintln(inv.Stdout, line)
	}
	return nil
}

// numericPrefix extracts the leading numeric value of a line, 0 when
// there is none. Best effort, the GNU -n contract for unparsable
// input.
func numericPrefix(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			end = i + 1
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.ParseFloat(s[:end], 64)
	return n
}
