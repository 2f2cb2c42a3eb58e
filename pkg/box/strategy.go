// SPDX-License-Identifier: MPL-2.0

package box

import (
	"context"
	"fmt"
	"time"

	"gobox/pkg/applet"
)

// Strategy is the resolved dispatch mode of a box.
type Strategy uint8

const (
	// StrategyMixed binds per applet weight: light applets directly,
	// heavy ones through the registry.
	StrategyMixed Strategy = iota
	// StrategyDirect binds every applet to its captured factory.
	StrategyDirect
	// StrategyIndirect resolves every applet through the registry at
	// call time.
	StrategyIndirect
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyMixed:
		return "mixed"
	case StrategyDirect:
		return "direct"
	case StrategyIndirect:
		return "indirect"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// StrategyPreference is the configuration-level strategy choice.
// Preferring indirect wins when both flags are set; neither set means
// mixed.
type StrategyPreference struct {
	// PreferDirect binds every applet directly.
	PreferDirect bool
	// PreferIndirect routes every call through the registry. Wins
	// over PreferDirect.
	PreferIndirect bool
}

func (p StrategyPreference) resolve() Strategy {
	switch {
	case p.PreferIndirect:
		return StrategyIndirect
	case p.PreferDirect:
		return StrategyDirect
	default:
		return StrategyMixed
	}
}

// Binding dispatches one registered applet. Both binding kinds share
// one dispatch path, so the strategy never changes an invocation's
// observable Outcome.
type Binding interface {
	// Name returns the applet name the binding answers to.
	Name() string
	// Synopsis returns the applet's one-line description.
	Synopsis() string
	// Strategy reports how the binding resolves its applet.
	Strategy() Strategy
	// Invoke runs the applet against inv and returns the classified
	// outcome. Exactly one Outcome is produced per call; panics are
	// recovered into runtime failures.
	Invoke(ctx context.Context, inv *applet.Invocation) applet.Outcome
}

// bind chooses the binding kind for desc under the box strategy.
func (b *Box) bind(desc applet.Descriptor) Binding {
	switch b.strategy {
	case StrategyDirect:
		return &directBinding{box: b, desc: desc}
	case StrategyIndirect:
		return &indirectBinding{box: b, name: desc.Name}
	default:
		if desc.Weight >= b.threshold {
			return &indirectBinding{box: b, name: desc.Name}
		}
		return &directBinding{box: b, desc: desc}
	}
}

// directBinding captured its descriptor when the box was built; no
// table access happens on the call path.
type directBinding struct {
	box  *Box
	desc applet.Descriptor
}

func (d *directBinding) Name() string       { return d.desc.Name }
func (d *directBinding) Synopsis() string   { return d.desc.Synopsis }
func (d *directBinding) Strategy() Strategy { return StrategyDirect }

func (d *directBinding) Invoke(ctx context.Context, inv *applet.Invocation) applet.Outcome {
	return d.box.dispatch(ctx, d.desc, StrategyDirect, inv)
}

// indirectBinding holds only the name and resolves the descriptor on
// every call, keeping heavyweight applets behind the table.
type indirectBinding struct {
	box  *Box
	name string
}

func (i *indirectBinding) Name() string { return i.name }

func (i *indirectBinding) Synopsis() string {
	desc, _ := i.box.registry.Lookup(i.name)
	return desc.Synopsis
}

func (i *indirectBinding) Strategy() Strategy { return StrategyIndirect }

func (i *indirectBinding) Invoke(ctx context.Context, inv *applet.Invocation) applet.Outcome {
	desc, ok := i.box.registry.Lookup(i.name)
	if !ok {
		// Unreachable for a sealed registry; classified instead of
		// panicking to keep the one-outcome guarantee.
		return i.box.codes.Outcome(inv, i.box.UnknownUtility(i.name))
	}
	return i.box.dispatch(ctx, desc, StrategyIndirect, inv)
}

// dispatch is the shared execution path of every binding: construct a
// fresh applet instance, plant the bridge, run, classify exactly once,
// and account for the dispatch. Panics become runtime outcomes.
func (b *Box) dispatch(ctx context.Context, desc applet.Descriptor, strat Strategy, inv *applet.Invocation) (out applet.Outcome) {
	inv.BindInvoker(b.Bridge())

	start := time.Now()
	ctx, done := b.telemetry.OnDispatch(ctx, desc.Name, strat)
	defer func() {
		done(out)
		b.logger.Debug("dispatched",
			"applet", desc.Name,
			"strategy", strat,
			"class", out.Class,
			"code", out.Code,
			"depth", inv.Depth(),
			"elapsed", time.Since(start),
			"id", inv.ID,
		)
	}()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("applet panicked", "applet", desc.Name, "panic", r)
			out = applet.Outcome{
				Class: applet.ClassRuntime,
				Code:  b.codes.Runtime,
				Diag:  fmt.Sprintf("%s: panic: %v", desc.Name, r),
			}
		}
	}()

	err := desc.Factory().Run(ctx, inv)
	out = b.codes.Outcome(inv, err)
	return out
}
