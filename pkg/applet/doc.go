// SPDX-License-Identifier: MPL-2.0

// Package applet defines the utility abstraction for gobox multi-call
// binaries: the Applet interface every utility implements, the
// Invocation context that replaces ambient process state, and the
// Outcome taxonomy that maps utility results to exit codes.
//
// # Invocation model
//
// A utility never reads os.Stdin, os.Environ, or the process working
// directory. Everything it may observe or touch arrives through an
// Invocation: argument vector, environment mapping, working directory,
// and three streams. Args[0] carries the applet name as invoked (argv
// convention); flags and operands begin at Args[1].
//
// Run is synchronous: one call, one result. Utilities may fan out
// internally but must join their goroutines before returning.
//
// # Stream ownership
//
// Streams are exclusively owned: no two concurrently in-flight
// invocations alias the same stream handle. Whoever constructs an
// Invocation releases it, on every exit path; Release flushes
// flushable outputs and closes owned streams exactly once. Concurrent
// siblings that must share one underlying writer (a pipeline's
// diagnostics, say) each take their own handle from a SharedWriter.
//
// # Outcomes
//
// Utilities return plain errors. The dispatch layer classifies each
// result exactly once into an Outcome: Success, Usage, Runtime, or
// Signaled, with the numeric code drawn from a configurable CodeMap.
// UsageError marks caller mistakes, ExitError carries an explicit
// code, SignalError reports signal-caused termination; anything else
// is a runtime failure.
package applet
