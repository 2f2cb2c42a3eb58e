// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Invocation carries everything a utility may observe or touch during
// one run: argument vector, environment, working directory, and three
// streams. It replaces ambient process state; utilities never reach
// for os.Stdin, os.Environ, or os.Getwd.
//
// Whoever constructs an Invocation owns it and must call Release on
// every exit path. Streams attached via OwnStream are closed by
// Release; inherited streams are left alone.
type Invocation struct {
	// ID uniquely identifies this invocation in logs and telemetry.
	ID string
	// Args is the argument vector. Args[0] is the applet name as
	// invoked; flags and operands begin at Args[1].
	Args []string
	// Env is the environment mapping. Never nil.
	Env *Environ
	// Dir is the working directory utilities resolve relative paths
	// against. Empty means the paths are used as given.
	Dir string
	// Stdin, Stdout, Stderr are the invocation's streams. Never nil.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Latency biases buffering inside streaming utilities.
	Latency Preference

	parent  *Invocation
	depth   int
	invoker Invoker
	sig     *signalRecord
	owned   []io.Closer

	releaseOnce sync.Once
	releaseErr  error
}

// Option customizes an Invocation at construction time.
type Option func(*Invocation)

// WithEnviron replaces the environment mapping.
func WithEnviron(env *Environ) Option {
	return func(inv *Invocation) { inv.Env = env }
}

// WithDir sets the working directory.
func WithDir(dir string) Option {
	return func(inv *Invocation) { inv.Dir = dir }
}

// WithStdin redirects the input stream.
func WithStdin(r io.Reader) Option {
	return func(inv *Invocation) { inv.Stdin = r }
}

// WithStdout redirects the output stream.
func WithStdout(w io.Writer) Option {
	return func(inv *Invocation) { inv.Stdout = w }
}

// WithStderr redirects the diagnostic stream.
func WithStderr(w io.Writer) Option {
	return func(inv *Invocation) { inv.Stderr = w }
}

// WithLatency sets the buffering bias.
func WithLatency(p Preference) Option {
	return func(inv *Invocation) { inv.Latency = p }
}

// WithInvoker plants the nested-invocation surface. Dispatch layers
// set this; utilities and tests normally leave it alone.
func WithInvoker(iv Invoker) Option {
	return func(inv *Invocation) { inv.invoker = iv }
}

// OwnStream transfers stream ownership to the invocation: Release
// closes c after flushing the output streams. Closers are released in
// reverse attachment order.
func OwnStream(c io.Closer) Option {
	return func(inv *Invocation) { inv.owned = append(inv.owned, c) }
}

// NewInvocation builds a root invocation context for the named applet.
// Defaults are hermetic: empty environment, EOF stdin, discarded
// outputs. The multiplexer overrides all of them from real process
// state; tests override what they observe.
func NewInvocation(name string, args []string, opts ...Option) *Invocation {
	inv := &Invocation{
		ID:     uuid.NewString(),
		Args:   append([]string{name}, args...),
		Env:    NewEnviron(nil),
		Stdin:  eofReader{},
		Stdout: io.Discard,
		Stderr: io.Discard,
		sig:    &signalRecord{},
	}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.Env == nil {
		inv.Env = NewEnviron(nil)
	}
	return inv
}

// Child derives a nested invocation: it inherits environment (as an
// independent copy), directory, streams, latency bias, invoker, and
// signal record unless overridden, and sits one level deeper than its
// parent. The parent link is a relation, never ownership: releasing
// the child does not touch the parent or its streams.
func (inv *Invocation) Child(name string, args []string, opts ...Option) *Invocation {
	child := &Invocation{
		ID:      uuid.NewString(),
		Args:    append([]string{name}, args...),
		Env:     inv.Env.Clone(),
		Dir:     inv.Dir,
		Stdin:   inv.Stdin,
		Stdout:  inv.Stdout,
		Stderr:  inv.Stderr,
		Latency: inv.Latency,
		parent:  inv,
		depth:   inv.depth + 1,
		invoker: inv.invoker,
		sig:     inv.sig,
	}
	for _, opt := range opts {
		opt(child)
	}
	if child.Env == nil {
		child.Env = NewEnviron(nil)
	}
	return child
}

// Name returns the applet name the invocation targets (Args[0]).
func (inv *Invocation) Name() string {
	if len(inv.Args) == 0 {
		return ""
	}
	return inv.Args[0]
}

// Depth returns how many bridge hops separate this invocation from the
// process entry. Root invocations are at depth 0.
func (inv *Invocation) Depth() int {
	return inv.depth
}

// Parent returns the invocation this one was derived from, or nil for
// a root invocation. Informational only.
func (inv *Invocation) Parent() *Invocation {
	return inv.parent
}

// Invoker returns the nested-invocation surface, or nil when the
// invocation was built outside a dispatch layer.
func (inv *Invocation) Invoker() Invoker {
	return inv.invoker
}

// BindInvoker plants the nested-invocation surface unless one is
// already bound. Dispatch layers call this on entry so that utilities
// can always bridge to siblings, however the invocation was built.
func (inv *Invocation) BindInvoker(iv Invoker) {
	if inv.invoker == nil {
		inv.invoker = iv
	}
}

// NoteSignal records a delivered signal. Only the first signal is
// kept; classification turns a cancellation-caused return into a
// Signaled outcome when a signal is on record. The record is shared
// with derived invocations.
func (inv *Invocation) NoteSignal(sig os.Signal) {
	inv.sig.note(sig)
}

// Signal returns the recorded signal, or nil.
func (inv *Invocation) Signal() os.Signal {
	return inv.sig.get()
}

// Release flushes flushable output streams and closes owned streams,
// exactly once; later calls return the first result. Inherited
// streams are never closed here.
func (inv *Invocation) Release() error {
	inv.releaseOnce.Do(func() {
		var errs []error
		for _, w := range []io.Writer{inv.Stdout, inv.Stderr} {
			if f, ok := w.(interface{ Flush() error }); ok {
				if err := f.Flush(); err != nil {
					errs = append(errs, err)
				}
			}
		}
		for i := len(inv.owned) - 1; i >= 0; i-- {
			if err := inv.owned[i].Close(); err != nil {
				errs = append(errs, err)
			}
		}
		inv.releaseErr = errors.Join(errs...)
	})
	return inv.releaseErr
}

// signalRecord holds the first signal delivered to an invocation tree.
type signalRecord struct {
	v atomic.Pointer[os.Signal]
}

func (r *signalRecord) note(sig os.Signal) {
	if sig == nil {
		return
	}
	r.v.CompareAndSwap(nil, &sig)
}

func (r *signalRecord) get() os.Signal {
	if p := r.v.Load(); p != nil {
		return *p
	}
	return nil
}
