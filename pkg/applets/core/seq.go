// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gobox/pkg/applet"
)

// seqApplet implements the seq utility.
type seqApplet struct{}

func newSeq() applet.Applet { return seqApplet{} }

// Name returns the applet name.
func (seqApplet) Name() string { return "seq" }

// Synopsis returns the one-line description.
func (seqApplet) Synopsis() string { return "print a sequence of numbers" }

// Run prints FIRST..LAST stepping by INCREMENT, one value per -s
// separator (default newline). Operand forms: LAST, FIRST LAST,
// FIRST INCREMENT LAST. -w pads values to equal width with leading
// zeros. The sequence streams; long ranges stop when the context is
// canceled rather than running to completion.
func (seqApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("seq", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	separator := fs.String("s", "\n", "separator between values")
	equalWidth := fs.Bool("w", false, "equalize width with leading zeros")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("seq", "%v", err)
	}

	operands := fs.Args()
	first, increment, last := 1.0, 1.0, 0.0
	var parseErr error
	switch len(operands) {
	case 0:
		return applet.Usagef("seq", "missing operand")
	case 1:
		last, parseErr = strconv.ParseFloat(operands[0], 64)
	case 2:
		first, parseErr = strconv.ParseFloat(operands[0], 64)
		if parseErr == nil {
			last, parseErr = strconv.ParseFloat(operands[1], 64)
		}
	case 3:
		first, parseErr = strconv.ParseFloat(operands[0], 64)
		if parseErr == nil {
			increment, parseErr = strconv.ParseFloat(operands[1], 64)
		}
		if parseErr == nil {
			last, parseErr = strconv.ParseFloat(operands[2], 64)
		}
	default:
		return applet.Usagef("seq", "extra operand %q", operands[3])
	}
	if parseErr != nil {
		return applet.Usagef("seq", "invalid numeric argument: %v", parseErr)
	}
	if increment == 0 {
		return applet.Usagef("seq", "increment must not be zero")
	}

	width := 0
	if *equalWidth {
		width = max(seqWidth(first), seqWidth(last))
	}

	// The epsilon in the loop bound compensates for floating point
	// accumulation drift: without it "seq 0 0.1 1" misses the terminal
	// value because repeated 0.1 addition lands past 1.0.
	count := 0
	for n := first; (increment > 0 && n <= last+1e-9) || (increment < 0 && n >= last-1e-9); n += increment {
		select {
		case <-ctx.Done():
			return fmt.Errorf("seq: %w", ctx.Err())
		default:
		}

		rounded := math.Round(n*1e9) / 1e9
		if count > 0 {
			fmt.Fprint(inv.Stdout, *separator)
		}
		if *equalWidth {
			fmt.Fprint(inv.Stdout, seqPadded(rounded, width))
		} else {
			fmt.Fprint(inv.Stdout, seqFormat(rounded))
		}
		count++
	}
	if count > 0 {
		fmt.Fprintln(inv.Stdout)
	}
	return nil
}

// seqFormat renders a value, preferring integer notation when the
// value is integral.
func seqFormat(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// seqPadded renders a value left-padded with zeros to width.
func seqPadded(n float64, width int) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return fmt.Sprintf("%0*d", width, int64(n))
	}
	s := strconv.FormatFloat(n, 'g', -1, 64)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// seqWidth returns the rendered length of a value.
func seqWidth(n float64) int {
	return len(seqFormat(n))
}
