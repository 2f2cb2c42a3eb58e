// SPDX-License-Identifier: MPL-2.0

// Package core provides the standard demonstration applet set:
// small POSIX-flavored utilities that exercise every part of the
// invocation contract (operands, flags, environment, working
// directory, streams, latency bias, cooperative cancellation).
//
// Utilities parse their own flags with the standard flag package,
// report caller mistakes as usage errors, and never print diagnostics
// themselves; classification and presentation belong to the dispatch
// layer. Args[0] is the applet name, flags and operands start at
// Args[1].
package core
