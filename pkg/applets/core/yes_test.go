// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"
	"errors"
	"testing"

	"gobox/pkg/applet"
)

// cappedWriter accepts up to limit bytes, then fails, recording the
// size of every accepted write.
type cappedWriter struct {
	limit  int
	total  int
	writes []int
}

var errCapped = errors.New("capped")

func (w *cappedWriter) Write(p []byte) (int, error) {
	if w.total+len(p) > w.limit {
		return 0, errCapped
	}
	w.total += len(p)
	w.writes = append(w.writes, len(p))
	return len(p), nil
}

func TestYesStopsOnWriteError(t *testing.T) {
	t.Parallel()

	out := &cappedWriter{limit: 64 * 1024}
	inv := applet.NewInvocation("yes", nil, applet.WithStdout(out))

	err := newYes().Run(t.Context(), inv)
	if !errors.Is(err, errCapped) {
		t.Fatalf("Run = %v, want wrapped errCapped", err)
	}
	if out.total == 0 {
		t.Fatal("yes wrote nothing before failing")
	}
	if out.total%len("y\n") != 0 {
		t.Errorf("total output %d is not whole lines", out.total)
	}
}

func TestYesBatchesUnderDefaultLatency(t *testing.T) {
	t.Parallel()

	out := &cappedWriter{limit: 3 * yesBufSize}
	inv := applet.NewInvocation("yes", nil, applet.WithStdout(out))

	_ = newYes().Run(t.Context(), inv)
	if len(out.writes) == 0 {
		t.Fatal("no writes recorded")
	}
	// Batched writes carry many repetitions per call.
	if out.writes[0] <= len("y\n") {
		t.Errorf("first write = %d bytes, want a filled batch", out.writes[0])
	}
	if out.writes[0] > yesBufSize {
		t.Errorf("first write = %d bytes, exceeds the batch size", out.writes[0])
	}
}

func TestYesWritesLinesUnderLowLatency(t *testing.T) {
	t.Parallel()

	out := &cappedWriter{limit: 10 * len("ping\n")}
	inv := applet.NewInvocation("yes", []string{"ping"},
		applet.WithStdout(out),
		applet.WithLatency(applet.LatencyLow),
	)

	_ = newYes().Run(t.Context(), inv)
	for i, n := range out.writes {
		if n != len("ping\n") {
			t.Fatalf("write %d = %d bytes, want %d", i, n, len("ping\n"))
		}
	}
}

func TestYesRepeatsOperands(t *testing.T) {
	t.Parallel()

	out := &cappedWriter{limit: yesBufSize}
	inv := applet.NewInvocation("yes", []string{"ja", "wohl"},
		applet.WithStdout(out),
		applet.WithLatency(applet.LatencyLow),
	)

	_ = newYes().Run(t.Context(), inv)
	if len(out.writes) == 0 || out.writes[0] != len("ja wohl\n") {
		t.Errorf("writes = %v, want lines of %d bytes", out.writes, len("ja wohl\n"))
	}
}

func TestYesObservesCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	inv := applet.NewInvocation("yes", nil)
	err := newYes().Run(ctx, inv)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
