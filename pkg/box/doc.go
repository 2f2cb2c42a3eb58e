// SPDX-License-Identifier: MPL-2.0

// Package box assembles applets into a multi-call toolbox: a sealed
// registry of utility descriptors, a dispatch layer that binds each
// utility directly (factory captured at build) or indirectly (resolved
// through the registry at call time), and a bridge for nested
// in-process invocation.
//
// # Construction
//
// A Box is built exactly once from a Config and is immutable and safe
// for concurrent use afterwards. There is no call-time registration:
// duplicate or invalid descriptors fail construction with a
// ConfigurationError instead of panicking later.
//
// # Dispatch strategies
//
// Every applet gets one Binding. Under StrategyDirect all bindings
// capture their factory; under StrategyIndirect all of them resolve
// through the registry on each call; under StrategyMixed (the
// default) an applet's Weight decides: heavyweight utilities stay
// behind the table, lightweight ones bind straight to their factory.
// Both kinds share one dispatch path, so for the same applet and
// equivalent invocations they produce identical Outcomes.
//
// # Nested invocation
//
// The Bridge runs one applet from inside another without spawning a
// subprocess: the callee is resolved through the registry, runs
// against a derived Invocation, and its outcome is returned to the
// caller. Nesting depth is bounded (DefaultMaxDepth unless
// configured); exceeding the bound yields a RecursionError classified
// as a runtime failure. Pipeline chains bridge calls with pipes
// between the stages.
package box
