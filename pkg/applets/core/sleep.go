// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gobox/pkg/applet"
)

// sleepApplet implements the sleep utility.
type sleepApplet struct{}

func newSleep() applet.Applet { return sleepApplet{} }

// Name returns the applet name.
func (sleepApplet) Name() string { return "sleep" }

// Synopsis returns the one-line description.
func (sleepApplet) Synopsis() string { return "pause for a duration" }

// Run waits for the operand duration or until the context is
// canceled, whichever comes first. A cancellation propagates as the
// context's error so an interrupt classifies as signaled.
func (sleepApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	operands := inv.Args[1:]
	if len(operands) == 0 {
		return applet.Usagef("sleep", "missing operand")
	}
	if len(operands) > 1 {
		return applet.Usagef("sleep", "extra operand %q", operands[1])
	}

	d, err := parseSleepInterval(operands[0])
	if err != nil {
		return applet.Usagef("sleep", "%v", err)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// parseSleepInterval parses "5", "5s", "5m", or "5h". A bare number
// counts seconds.
func parseSleepInterval(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid time interval %q", s)
	}

	unit := time.Second
	num := s
	switch strings.ToLower(s[len(s)-1:]) {
	case "s":
		num = s[:len(s)-1]
	case "m":
		unit = time.Minute
		num = s[:len(s)-1]
	case "h":
		unit = time.Hour
		num = s[:len(s)-1]
	}

	val, err := strconv.ParseFloat(num, 64)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("invalid time interval %q", s)
	}
	return time.Duration(val * float64(unit)), nil
}
