// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

// trackedCloser records Close calls and can fail on demand.
type trackedCloser struct {
	name   string
	err    error
	closed bool
	order  *[]string
}

func (c *trackedCloser) Close() error {
	c.closed = true
	if c.order != nil {
		*c.order = append(*c.order, c.name)
	}
	return c.err
}

// flushRecorder counts Flush calls.
type flushRecorder struct {
	bytes.Buffer
	flushes int
	err     error
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return f.err
}

func TestNewInvocationDefaults(t *testing.T) {
	t.Parallel()

	inv := NewInvocation("echo", []string{"hi"})

	if got, want := inv.Args, []string{"echo", "hi"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Args = %v, want %v", got, want)
	}
	if inv.Name() != "echo" {
		t.Errorf("Name() = %q, want echo", inv.Name())
	}
	if inv.ID == "" {
		t.Error("ID is empty")
	}
	if inv.Env == nil || inv.Env.Len() != 0 {
		t.Error("default environment not empty")
	}
	if inv.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", inv.Depth())
	}
	if inv.Parent() != nil {
		t.Error("root invocation has a parent")
	}

	// Hermetic defaults: stdin at EOF, outputs discarded.
	buf := make([]byte, 8)
	n, err := inv.Stdin.Read(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("default stdin Read = %d, %v; want 0, EOF", n, err)
	}
}

func TestInvocationOptions(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	env := NewEnviron([]string{"A=1"})
	inv := NewInvocation("cat", nil,
		WithEnviron(env),
		WithDir("/tmp"),
		WithStdin(strings.NewReader("data")),
		WithStdout(&out),
		WithStderr(&errOut),
		WithLatency(LatencyLow),
	)

	if inv.Env.Get("A") != "1" {
		t.Error("WithEnviron not applied")
	}
	if inv.Dir != "/tmp" {
		t.Errorf("Dir = %q, want /tmp", inv.Dir)
	}
	if inv.Latency != LatencyLow {
		t.Errorf("Latency = %v, want %v", inv.Latency, LatencyLow)
	}
	data, err := io.ReadAll(inv.Stdin)
	if err != nil || string(data) != "data" {
		t.Errorf("stdin = %q, %v; want data, nil", data, err)
	}
}

func TestChildInheritance(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	parent := NewInvocation("sh", []string{"-c", "cat"},
		WithDir("/work"),
		WithStdout(&out),
		WithLatency(LatencyLow),
	)
	parent.Env.Set("INHERITED", "yes")

	child := parent.Child("cat", []string{"file.txt"})

	if child.Name() != "cat" {
		t.Errorf("child Name() = %q, want cat", child.Name())
	}
	if child.Depth() != 1 {
		t.Errorf("child Depth() = %d, want 1", child.Depth())
	}
	if child.Parent() != parent {
		t.Error("child parent link broken")
	}
	if child.Dir != "/work" {
		t.Errorf("child Dir = %q, want /work", child.Dir)
	}
	if child.Stdout != io.Writer(&out) {
		t.Error("child did not inherit stdout")
	}
	if child.Latency != LatencyLow {
		t.Error("child did not inherit latency bias")
	}
	if child.Env.Get("INHERITED") != "yes" {
		t.Error("child did not inherit environment")
	}
	if child.ID == parent.ID {
		t.Error("child shares parent ID")
	}

	// The inherited environment is a copy, not an alias.
	child.Env.Set("INHERITED", "no")
	if parent.Env.Get("INHERITED") != "yes" {
		t.Error("child environment mutation leaked into parent")
	}
}

func TestChildRedirect(t *testing.T) {
	t.Parallel()

	parent := NewInvocation("sh", nil)
	var redirected bytes.Buffer
	child := parent.Child("echo", []string{"hi"}, WithStdout(&redirected))

	if child.Stdout != io.Writer(&redirected) {
		t.Error("WithStdout on child ignored")
	}
	if parent.Stdout == io.Writer(&redirected) {
		t.Error("child redirect altered the parent")
	}
}

func TestReleaseClosesOwnedInReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	first := &trackedCloser{name: "first", order: &order}
	second := &trackedCloser{name: "second", order: &order}

	inv := NewInvocation("echo", nil, OwnStream(first), OwnStream(second))
	if err := inv.Release(); err != nil {
		t.Fatalf("Release() = %v", err)
	}

	if !first.closed || !second.closed {
		t.Fatal("owned streams not closed")
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("close order = %v, want [second first]", order)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	closer := &trackedCloser{name: "pipe", err: errors.New("close failed")}
	inv := NewInvocation("echo", nil, OwnStream(closer))

	err1 := inv.Release()
	if err1 == nil {
		t.Fatal("Release() = nil, want close error")
	}
	closer.closed = false

	err2 := inv.Release()
	if !errors.Is(err2, err1) && err2.Error() != err1.Error() {
		t.Errorf("second Release() = %v, want first result %v", err2, err1)
	}
	if closer.closed {
		t.Error("second Release closed streams again")
	}
}

func TestReleaseFlushesOutputs(t *testing.T) {
	t.Parallel()

	out := &flushRecorder{}
	errOut := &flushRecorder{err: errors.New("flush failed")}
	inv := NewInvocation("echo", nil, WithStdout(out), WithStderr(errOut))

	err := inv.Release()
	if out.flushes != 1 || errOut.flushes != 1 {
		t.Errorf("flush counts = %d, %d; want 1, 1", out.flushes, errOut.flushes)
	}
	if err == nil {
		t.Error("Release() swallowed flush error")
	}
}

func TestReleaseNeverClosesInheritedStreams(t *testing.T) {
	t.Parallel()

	shared := &trackedCloser{name: "parent-owned"}
	parent := NewInvocation("sh", nil, OwnStream(shared))
	child := parent.Child("cat", nil)

	if err := child.Release(); err != nil {
		t.Fatalf("child Release() = %v", err)
	}
	if shared.closed {
		t.Error("child release closed a parent-owned stream")
	}
}

func TestSignalRecordSharedWithChildren(t *testing.T) {
	t.Parallel()

	parent := NewInvocation("sleep", nil)
	child := parent.Child("sleep", nil)

	if parent.Signal() != nil {
		t.Fatal("fresh invocation has a recorded signal")
	}

	parent.NoteSignal(os.Interrupt)
	if child.Signal() != os.Interrupt {
		t.Error("signal did not propagate to derived invocation")
	}

	// First signal wins.
	parent.NoteSignal(os.Kill)
	if parent.Signal() != os.Interrupt {
		t.Error("later signal overwrote the first")
	}
}

func TestSharedWriterSerializesHandles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	shared := NewSharedWriter(&buf)

	const writers = 8
	const repeats = 50

	var wg sync.WaitGroup
	for i := range writers {
		h := shared.Handle()
		wg.Add(1)
		go func() {
			defer wg.Done()
			line := fmt.Sprintf("writer-%d\n", i)
			for range repeats {
				if _, err := h.Write([]byte(line)); err != nil {
					t.Errorf("Write: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != writers*repeats {
		t.Fatalf("got %d lines, want %d", len(lines), writers*repeats)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "writer-") {
			t.Fatalf("interleaved write: %q", line)
		}
	}
}
