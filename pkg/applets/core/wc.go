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
	"unicode"

	"gobox/pkg/applet"
)

type (
	// wcApplet implements the wc utility.
	wcApplet struct{}

	// wcCounts accumulates the totals for one input.
	wcCounts struct {
		lines int64
		words int64
		bytes int64
		chars int64
	}
)

func newWc() applet.Applet { return wcApplet{} }

// Name returns the applet name.
func (wcApplet) Name() string { return "wc" }

// Synopsis returns the one-line description.
func (wcApplet) Synopsis() string { return "count lines, words, and bytes" }

// Run counts each operand (stdin without operands) and prints the
// selected counts; without flags it prints lines, words, and bytes.
// -m selects characters and yields to -c when both are given. A
// "total" row follows when there is more than one operand.
func (wcApplet) Run(_ context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("wc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	showLines := fs.Bool("l", false, "print line count")
	showWords := fs.Bool("w", false, "print word count")
	showBytes := fs.Bool("c", false, "print byte count")
	showChars := fs.Bool("m", false, "print character count")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("wc", "%v", err)
	}

	if !*showLines && !*showWords && !*showBytes && !*showChars {
		*showLines, *showWords, *showBytes = true, true, true
	}
	show := [4]bool{*showLines, *showWords, *showBytes, *showChars && !*showBytes}

	operands := fs.Args()
	var total wcCounts
	err := processFilesOrStdin(inv, operands, func(r io.Reader, name string, _, _ int) error {
		counts, err := wcCount(r)
		if err != nil {
			return fmt.Errorf("wc: %s: %w", name, err)
		}
		total.add(counts)
		if name == "-" {
			name = ""
		}
		wcPrint(inv.Stdout, counts, name, show)
		return nil
	})
	if err != nil {
		return err
	}

	if len(operands) > 1 {
		wcPrint(inv.Stdout, total, "total", show)
	}
	return nil
}

// wcCount streams r once, counting lines, words, bytes, and runes.
func wcCount(r io.Reader) (wcCounts, error) {
	var counts wcCounts
	reader := bufio.NewReader(r)
	inWord := false

	for {
		ru, size, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return counts, nil
			}
			return counts, err
		}

		counts.bytes += int64(size)
		counts.chars++
		if ru == '\n' {
			counts.lines++
		}
		if unicode.IsSpace(ru) {
			inWord = false
		} else if !inWord {
			inWord = true
			counts.words++
		}
	}
}

// add accumulates other into c.
func (c *wcCounts) add(other wcCounts) {
	c.lines += other.lines
	c.words += other.words
	c.bytes += other.bytes
	c.chars += other.chars
}

// wcPrint writes one result row. show selects columns in the fixed
// order lines, words, bytes, chars.
func wcPrint(out io.Writer, counts wcCounts, name string, show [4]bool) {
	values := [4]int64{counts.lines, counts.words, counts.bytes, counts.chars}
	var parts []string
	for i, on := range show {
		if on {
			parts = append(parts, fmt.Sprintf("%7d", values[i]))
		}
	}
	if name != "" {
		fmt.Fprintf(out, "%s %s\n", strings.Join(parts, " "), name)
		return
	}
	fmt.Fprintf(out, "%s\n", strings.Join(parts, " "))
}
