// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"context"
	"fmt"
)

type (
	// Applet is a single utility compiled into a multi-call binary.
	// Implementations must be safe to construct per invocation and
	// must not retain or mutate the Invocation after Run returns.
	Applet interface {
		// Name returns the registry key the utility answers to.
		Name() string
		// Synopsis returns a one-line description for listings.
		Synopsis() string
		// Run executes the utility against inv. It returns only when
		// the utility's work is complete; internal goroutines are
		// joined before return. The returned error is classified by
		// the dispatch layer, never by the applet itself.
		Run(ctx context.Context, inv *Invocation) error
	}

	// Factory constructs a fresh Applet instance. A new instance is
	// created per invocation so concurrent invocations never share
	// mutable state.
	Factory func() Applet

	// Descriptor is the registration unit for one utility. Inclusion
	// in a build is membership: a descriptor handed to the dispatch
	// layer is part of the binary, and there are no disabled
	// placeholder entries.
	Descriptor struct {
		// Name is the registry key, unique within a build.
		Name string
		// Synopsis is a one-line description for listings.
		Synopsis string
		// Weight is a relative dispatch-cost hint (code size, call
		// frequency) consumed by the mixed dispatch strategy. Zero
		// means unknown and is treated as the lightest weight.
		Weight int
		// Factory constructs the utility. Must be non-nil.
		Factory Factory
	}

	// Invoker is the nested-invocation surface the dispatch layer
	// plants on every Invocation it runs. A running utility calls
	// Invoke to run a sibling in-process with a derived context; no
	// subprocess is spawned.
	Invoker interface {
		Invoke(ctx context.Context, inv *Invocation) Outcome
	}
)

// Validate reports whether the descriptor can be registered.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has empty name")
	}
	if d.Factory == nil {
		return fmt.Errorf("descriptor %q has nil factory", d.Name)
	}
	return nil
}

// Preference biases buffering and polling choices inside utilities
// that stream large amounts of data.
type Preference uint8

const (
	// LatencyDefault favors throughput: utilities may batch writes
	// into large buffers.
	LatencyDefault Preference = iota
	// LatencyLow favors promptness: utilities write small units as
	// soon as they are produced.
	LatencyLow
)

// String returns the preference name.
func (p Preference) String() string {
	switch p {
	case LatencyDefault:
		return "default"
	case LatencyLow:
		return "low"
	default:
		return fmt.Sprintf("preference(%d)", uint8(p))
	}
}
