// SPDX-License-Identifier: MPL-2.0

// Package mux is the process entry point of a multi-call binary: it
// resolves which applet an invocation addresses, builds the one root
// Invocation from real process state, dispatches it, and maps the
// outcome to the process exit code.
//
// Resolution follows the multi-call convention: the basename of
// argv[0] is tried first (after stripping configured suffixes such as
// ".exe"), then the first argument with the vector shifted left by
// one. A name that resolves to nothing is a usage failure carrying
// the registered names as a hint.
//
// Signals are cooperative: a configured signal cancels the root
// invocation's context and is recorded on the invocation, so an
// applet that stops because of the cancellation yields a Signaled
// outcome (exit 128+n under the default code map) while an applet
// that completes on its own terms keeps its own outcome. Nothing is
// forcibly terminated.
//
// Main never calls os.Exit; the caller does, which keeps the whole
// path testable:
//
//	func main() {
//		os.Exit(mux.Main(mux.Options{Box: toolbox}))
//	}
package mux
