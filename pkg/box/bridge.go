// SPDX-License-Identifier: MPL-2.0

package box

import (
	"context"
	"io"
	"sync"

	"gobox/pkg/applet"
)

// Bridge runs registered applets from inside other applets, in
// process. Resolution is always through the registry (late-bound), so
// nested dispatch behaves uniformly regardless of the caller's own
// binding kind.
type Bridge struct {
	box *Box
}

// Bridge returns the nested-invocation surface of the box.
func (b *Box) Bridge() *Bridge {
	return &Bridge{box: b}
}

// Known reports whether name resolves in the underlying registry. It
// lets embedded interpreters distinguish command-not-found from a
// command that ran and failed.
func (br *Bridge) Known(name string) bool {
	_, ok := br.box.Lookup(name)
	return ok
}

// Invoke dispatches inv to the applet named by inv.Args[0]. The depth
// bound is enforced here: an invocation nested past the box's
// MaxDepth yields a RecursionError classified as a runtime failure.
// Unknown names yield a usage outcome carrying the registered names.
func (br *Bridge) Invoke(ctx context.Context, inv *applet.Invocation) applet.Outcome {
	b := br.box
	if inv.Depth() > b.maxDepth {
		err := &RecursionError{Depth: inv.Depth(), Max: b.maxDepth}
		b.logger.Warn("nested invocation rejected", "applet", inv.Name(), "depth", inv.Depth(), "max", b.maxDepth)
		return b.codes.Outcome(inv, err)
	}

	binding, ok := b.Lookup(inv.Name())
	if !ok {
		return b.codes.Outcome(inv, b.UnknownUtility(inv.Name()))
	}
	return binding.Invoke(ctx, inv)
}

// Stage names one pipeline element.
type Stage struct {
	// Name is the applet to run.
	Name string
	// Args are its arguments (flags and operands, not the name).
	Args []string
}

// Pipeline chains bridge invocations the way a shell pipeline does:
// each stage's output stream is piped into the next stage's input,
// the first stage inherits the parent's stdin, the last inherits its
// stdout, and every stage gets its own handle on the parent's stderr.
// Stages run concurrently; the pipeline's outcome is the last
// stage's, the shell convention.
func (br *Bridge) Pipeline(ctx context.Context, parent *applet.Invocation, stages ...Stage) applet.Outcome {
	b := br.box
	if len(stages) == 0 {
		return b.codes.Outcome(parent, &applet.UsageError{Msg: "empty pipeline"})
	}

	children := make([]*applet.Invocation, len(stages))
	if len(stages) == 1 {
		children[0] = parent.Child(stages[0].Name, stages[0].Args)
	} else {
		shared := applet.NewSharedWriter(parent.Stderr)
		var upstream *io.PipeReader
		for i, stage := range stages {
			opts := []applet.Option{applet.WithStderr(shared.Handle())}
			if i > 0 {
				opts = append(opts, applet.WithStdin(upstream), applet.OwnStream(upstream))
			}
			if i < len(stages)-1 {
				pr, pw := io.Pipe()
				opts = append(opts, applet.WithStdout(pw), applet.OwnStream(pw))
				upstream = pr
			}
			children[i] = parent.Child(stage.Name, stage.Args, opts...)
		}
	}

	outcomes := make([]applet.Outcome, len(children))
	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := br.Invoke(ctx, child)
			if err := child.Release(); err != nil && out.Success() {
				out = b.codes.Outcome(child, err)
			}
			outcomes[i] = out
		}()
	}
	wg.Wait()

	return outcomes[len(outcomes)-1]
}
