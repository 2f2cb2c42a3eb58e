// SPDX-License-Identifier: MPL-2.0

package box

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"gobox/pkg/applet"
)

// fakeApplet is the package test double: behavior injected per test.
type fakeApplet struct {
	name     string
	synopsis string
	run      func(ctx context.Context, inv *applet.Invocation) error
}

func (f *fakeApplet) Name() string     { return f.name }
func (f *fakeApplet) Synopsis() string { return f.synopsis }

func (f *fakeApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	if f.run == nil {
		return nil
	}
	return f.run(ctx, inv)
}

func fakeDescriptor(name string, weight int, run func(context.Context, *applet.Invocation) error) applet.Descriptor {
	return applet.Descriptor{
		Name:     name,
		Synopsis: "fake " + name,
		Weight:   weight,
		Factory: func() applet.Applet {
			return &fakeApplet{name: name, synopsis: "fake " + name, run: run}
		},
	}
}

// emitDescriptor writes its operands to stdout, newline-terminated.
func emitDescriptor(name string, weight int) applet.Descriptor {
	return fakeDescriptor(name, weight, func(_ context.Context, inv *applet.Invocation) error {
		_, err := fmt.Fprintln(inv.Stdout, strings.Join(inv.Args[1:], " "))
		return err
	})
}

// copyDescriptor streams stdin to stdout.
func copyDescriptor(name string, weight int) applet.Descriptor {
	return fakeDescriptor(name, weight, func(_ context.Context, inv *applet.Invocation) error {
		_, err := io.Copy(inv.Stdout, inv.Stdin)
		return err
	})
}

// recordingTelemetry captures dispatch records for assertions.
type recordingTelemetry struct {
	mu     sync.Mutex
	events []dispatchEvent
}

type dispatchEvent struct {
	name     string
	strategy Strategy
	outcome  applet.Outcome
}

func (r *recordingTelemetry) OnDispatch(ctx context.Context, name string, strat Strategy) (context.Context, func(applet.Outcome)) {
	return ctx, func(out applet.Outcome) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, dispatchEvent{name: name, strategy: strat, outcome: out})
	}
}

func (r *recordingTelemetry) snapshot() []dispatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// newTestBox builds a quiet box or fails the test.
func newTestBox(t *testing.T, cfg Config) *Box {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestNewRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "no applets",
			cfg:  Config{},
		},
		{
			name: "duplicate names",
			cfg: Config{Applets: []applet.Descriptor{
				emitDescriptor("echo", 1),
				emitDescriptor("echo", 2),
			}},
		},
		{
			name: "empty name",
			cfg:  Config{Applets: []applet.Descriptor{emitDescriptor("", 1)}},
		},
		{
			name: "nil factory",
			cfg:  Config{Applets: []applet.Descriptor{{Name: "ghost"}}},
		},
		{
			name: "negative max depth",
			cfg: Config{
				Applets:  []applet.Descriptor{emitDescriptor("echo", 1)},
				MaxDepth: -1,
			},
		},
		{
			name: "negative threshold",
			cfg: Config{
				Applets:         []applet.Descriptor{emitDescriptor("echo", 1)},
				DirectThreshold: -3,
			},
		},
		{
			name: "code map out of range",
			cfg: Config{
				Applets: []applet.Descriptor{emitDescriptor("echo", 1)},
				Codes:   applet.CodeMap{Success: 0, Usage: 300, Runtime: 1, SignalBase: 128},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.cfg.Logger = log.New(io.Discard)
			_, err := New(tt.cfg)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("New() error = %v, want *ConfigurationError", err)
			}
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{Applets: []applet.Descriptor{emitDescriptor("echo", 1)}})

	if b.MaxDepth() != DefaultMaxDepth {
		t.Errorf("MaxDepth() = %d, want %d", b.MaxDepth(), DefaultMaxDepth)
	}
	if b.Codes() != applet.DefaultCodeMap {
		t.Errorf("Codes() = %+v, want default", b.Codes())
	}
	if b.Strategy() != StrategyMixed {
		t.Errorf("Strategy() = %v, want mixed", b.Strategy())
	}
}

func TestLookupIsExactMatch(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{Applets: []applet.Descriptor{
		emitDescriptor("echo", 1),
		copyDescriptor("cat", 2),
	}})

	if _, ok := b.Lookup("echo"); !ok {
		t.Error("Lookup(echo) missed")
	}
	for _, name := range []string{"ech", "echoo", "ECHO", ""} {
		if _, ok := b.Lookup(name); ok {
			t.Errorf("Lookup(%q) matched, want miss", name)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{Applets: []applet.Descriptor{
		emitDescriptor("yes", 1),
		emitDescriptor("cat", 1),
		emitDescriptor("echo", 1),
	}})

	want := []string{"cat", "echo", "yes"}
	if got := b.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	// Returned slice is a copy; mutating it must not corrupt the box.
	names := b.Names()
	names[0] = "mutated"
	if got := b.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() after caller mutation = %v, want %v", got, want)
	}
}

func TestBindingsInNameOrder(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{Applets: []applet.Descriptor{
		emitDescriptor("true", 1),
		emitDescriptor("cat", 1),
	}})

	bindings := b.Bindings()
	if len(bindings) != 2 || bindings[0].Name() != "cat" || bindings[1].Name() != "true" {
		names := make([]string, len(bindings))
		for i, bind := range bindings {
			names[i] = bind.Name()
		}
		t.Errorf("Bindings() order = %v, want [cat true]", names)
	}
	if bindings[0].Synopsis() != "fake cat" {
		t.Errorf("Synopsis() = %q, want %q", bindings[0].Synopsis(), "fake cat")
	}
}

func TestUnknownUtilityCarriesHint(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{Applets: []applet.Descriptor{
		emitDescriptor("echo", 1),
		copyDescriptor("cat", 2),
	}})

	err := b.UnknownUtility("wc")
	if !strings.Contains(err.Error(), `"wc"`) {
		t.Errorf("error %q does not name the missing utility", err.Error())
	}
	if !strings.Contains(err.Error(), "cat, echo") {
		t.Errorf("error %q does not enumerate registered names", err.Error())
	}

	out := b.Codes().Outcome(nil, err)
	if out.Class != applet.ClassUsage || out.Code != 2 {
		t.Errorf("unknown utility outcome = %+v, want usage/2", out)
	}
}
