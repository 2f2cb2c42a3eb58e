// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"fmt"
	"strings"

	"gobox/pkg/applet"
)

// yesBufSize is the batch size used when throughput is preferred.
const yesBufSize = 16 * 1024

// yesApplet implements the yes utility.
type yesApplet struct{}

func newYes() applet.Applet { return yesApplet{} }

// Name returns the applet name.
func (yesApplet) Name() string { return "yes" }

// Synopsis returns the one-line description.
func (yesApplet) Synopsis() string { return "repeatedly write a line to standard output" }

// Run writes the operands (or "y") forever, until the output fails or
// the invocation is cancelled. Under the default latency bias the
// line is replicated into a large buffer so each write carries many
// repetitions; under LatencyLow every line is written as soon as it
// is produced.
func (yesApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	line := "y\n"
	if operands := inv.Args[1:]; len(operands) > 0 {
		line = strings.Join(operands, " ") + "\n"
	}

	payload := []byte(line)
	if inv.Latency == applet.LatencyDefault && len(payload) < yesBufSize/2 {
		buf := make([]byte, 0, yesBufSize)
		for len(buf)+len(payload) <= yesBufSize {
			buf = append(buf, payload...)
		}
		payload = buf
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := inv.Stdout.Write(payload); err != nil {
			return fmt.Errorf("yes: %w", err)
		}
	}
}
