// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"gobox/pkg/applet"
)

// trApplet implements the tr utility.
type trApplet struct{}

func newTr() applet.Applet { return trApplet{} }

// Name returns the applet name.
func (trApplet) Name() string { return "tr" }

// Synopsis returns the one-line description.
func (trApplet) Synopsis() string { return "translate or delete characters" }

// Run copies stdin to stdout translating characters in SET1 to their
// positional counterparts in SET2 (a short SET2 repeats its last
// character). -d deletes SET1 characters instead, -c complements
// SET1, -s squeezes repeated output characters that are in the last
// operand set. Sets support a-z ranges and \n \t \r escapes.
func (trApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("tr", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	deleteMode := fs.Bool("d", false, "delete characters in SET1")
	squeeze := fs.Bool("s", false, "squeeze repeated output characters")
	complement := fs.Bool("c", false, "operate on the complement of SET1")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("tr", "%v", err)
	}

	operands := fs.Args()
	if len(operands) == 0 {
		return applet.Usagef("tr", "missing operand")
	}
	set1 := []rune(expandTrSet(operands[0]))
	var set2 []rune
	if len(operands) > 1 {
		set2 = []rune(expandTrSet(operands[1]))
	}
	if !*deleteMode && !*squeeze && len(set2) == 0 {
		return applet.Usagef("tr", "missing operand after %q", operands[0])
	}

	inSet1 := func(r rune) bool {
		in := slices.Contains(set1, r)
		if *complement {
			return !in
		}
		return in
	}
	translate := func(r rune) rune {
		if len(set2) == 0 || !inSet1(r) {
			return r
		}
		if *complement {
			return set2[len(set2)-1]
		}
		if idx := slices.Index(set1, r); idx < len(set2) {
			return set2[idx]
		}
		return set2[len(set2)-1]
	}
	squeezeSet := set1
	if len(set2) > 0 {
		squeezeSet = set2
	}

	reader := bufio.NewReader(inv.Stdin)
	writer := bufio.NewWriter(inv.Stdout)
	var last rune
	haveLast := false

	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("tr: %w", err)
		}

		if *deleteMode && inSet1(r) {
			continue
		}
		out := translate(r)
		if *squeeze && haveLast && out == last && slices.Contains(squeezeSet, out) {
			continue
		}
		if _, err := writer.WriteRune(out); err != nil {
			return fmt.Errorf("tr: %w", err)
		}
		last, haveLast = out, true
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("tr: %w", err)
	}
	return nil
}

// expandTrSet expands ranges (a-z, 9-0) and the escapes \n \t \r \\
// in a set operand.
func expandTrSet(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		switch {
		case i+2 < len(runes) && runes[i+1] == '-':
			start, end := runes[i], runes[i+2]
			if start <= end {
				for c := start; c <= end; c++ {
					result.WriteRune(c)
				}
			} else {
				for c := start; c >= end; c-- {
					result.WriteRune(c)
				}
			}
			i += 2
		case runes[i] == '\\' && i+1 < len(runes):
			i++
			switch runes[i] {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			default:
				result.WriteRune(runes[i])
			}
		default:
			result.WriteRune(runes[i])
		}
	}
	return result.String()
}
