// SPDX-License-Identifier: MPL-2.0

package box

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"gobox/pkg/applet"
)

func TestStrategyPreferenceResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pref StrategyPreference
		want Strategy
	}{
		{"neither set is mixed", StrategyPreference{}, StrategyMixed},
		{"direct", StrategyPreference{PreferDirect: true}, StrategyDirect},
		{"indirect", StrategyPreference{PreferIndirect: true}, StrategyIndirect},
		{"indirect wins over direct", StrategyPreference{PreferDirect: true, PreferIndirect: true}, StrategyIndirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.pref.resolve(); got != tt.want {
				t.Errorf("resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMixedStrategySplitsOnWeight(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{
		Applets: []applet.Descriptor{
			emitDescriptor("true", 1),
			emitDescriptor("sh", 8),
		},
		DirectThreshold: 4,
	})

	light, _ := b.Lookup("true")
	heavy, _ := b.Lookup("sh")
	if light.Strategy() != StrategyDirect {
		t.Errorf("light applet bound %v, want direct", light.Strategy())
	}
	if heavy.Strategy() != StrategyIndirect {
		t.Errorf("heavy applet bound %v, want indirect", heavy.Strategy())
	}
}

func TestUniformStrategiesBindEverything(t *testing.T) {
	t.Parallel()

	descs := []applet.Descriptor{emitDescriptor("true", 1), emitDescriptor("sh", 8)}

	direct := newTestBox(t, Config{Applets: descs, Strategy: StrategyPreference{PreferDirect: true}})
	for _, bind := range direct.Bindings() {
		if bind.Strategy() != StrategyDirect {
			t.Errorf("%s bound %v under direct preference", bind.Name(), bind.Strategy())
		}
	}

	indirect := newTestBox(t, Config{Applets: descs, Strategy: StrategyPreference{PreferIndirect: true}})
	for _, bind := range indirect.Bindings() {
		if bind.Strategy() != StrategyIndirect {
			t.Errorf("%s bound %v under indirect preference", bind.Name(), bind.Strategy())
		}
	}
}

// Dispatch strategy must never change what an invocation observes or
// produces: identical inputs through a direct and an indirect binding
// yield identical outcomes and identical bytes.
func TestDirectAndIndirectOutcomesMatch(t *testing.T) {
	t.Parallel()

	runs := []struct {
		name string
		desc applet.Descriptor
		args []string
	}{
		{"success", emitDescriptor("emit", 1), []string{"hello", "world"}},
		{"usage failure", fakeDescriptor("fussy", 1, func(_ context.Context, inv *applet.Invocation) error {
			return applet.Usagef("fussy", "unsupported operand %q", inv.Args[1])
		}), []string{"x"}},
		{"runtime failure", fakeDescriptor("flaky", 1, func(context.Context, *applet.Invocation) error {
			return errors.New("backend unavailable")
		}), nil},
		{"explicit exit", fakeDescriptor("quitter", 1, func(context.Context, *applet.Invocation) error {
			return applet.Exit(7)
		}), nil},
	}

	for _, tt := range runs {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			invoke := func(pref StrategyPreference) (applet.Outcome, string) {
				b := newTestBox(t, Config{Applets: []applet.Descriptor{tt.desc}, Strategy: pref})
				bind, ok := b.Lookup(tt.desc.Name)
				if !ok {
					t.Fatalf("Lookup(%s) missed", tt.desc.Name)
				}
				var out bytes.Buffer
				inv := applet.NewInvocation(tt.desc.Name, tt.args, applet.WithStdout(&out))
				defer inv.Release()
				return bind.Invoke(t.Context(), inv), out.String()
			}

			directOut, directBytes := invoke(StrategyPreference{PreferDirect: true})
			indirectOut, indirectBytes := invoke(StrategyPreference{PreferIndirect: true})

			if directOut != indirectOut {
				t.Errorf("outcomes differ: direct %+v, indirect %+v", directOut, indirectOut)
			}
			if directBytes != indirectBytes {
				t.Errorf("outputs differ: direct %q, indirect %q", directBytes, indirectBytes)
			}
		})
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	t.Parallel()

	b := newTestBox(t, Config{Applets: []applet.Descriptor{
		fakeDescriptor("bomb", 1, func(context.Context, *applet.Invocation) error {
			panic("short fuse")
		}),
	}})

	bind, _ := b.Lookup("bomb")
	inv := applet.NewInvocation("bomb", nil)
	defer inv.Release()

	out := bind.Invoke(t.Context(), inv)
	if out.Class != applet.ClassRuntime || out.Code != 1 {
		t.Errorf("panic outcome = %+v, want runtime/1", out)
	}
	if want := "bomb: panic: short fuse"; out.Diag != want {
		t.Errorf("Diag = %q, want %q", out.Diag, want)
	}
}

func TestDispatchEmitsOneTelemetryRecord(t *testing.T) {
	t.Parallel()

	rec := &recordingTelemetry{}
	b := newTestBox(t, Config{
		Applets:   []applet.Descriptor{emitDescriptor("emit", 1)},
		Telemetry: rec,
	})

	bind, _ := b.Lookup("emit")
	inv := applet.NewInvocation("emit", []string{"x"})
	out := bind.Invoke(t.Context(), inv)
	_ = inv.Release()

	events := rec.snapshot()
	if len(events) != 1 {
		t.Fatalf("telemetry records = %d, want 1", len(events))
	}
	got := events[0]
	if got.name != "emit" || got.strategy != StrategyDirect || got.outcome != out {
		t.Errorf("record = %+v, want emit/direct/%+v", got, out)
	}
}

func TestDispatchPlantsInvoker(t *testing.T) {
	t.Parallel()

	var seen applet.Invoker
	b := newTestBox(t, Config{Applets: []applet.Descriptor{
		fakeDescriptor("probe", 1, func(_ context.Context, inv *applet.Invocation) error {
			seen = inv.Invoker()
			return nil
		}),
	}})

	bind, _ := b.Lookup("probe")
	inv := applet.NewInvocation("probe", nil)
	defer inv.Release()

	if out := bind.Invoke(t.Context(), inv); !out.Success() {
		t.Fatalf("Invoke = %+v", out)
	}
	if seen == nil {
		t.Error("dispatch did not plant an invoker")
	}
}
