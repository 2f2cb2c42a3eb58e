// SPDX-License-Identifier: MPL-2.0

// Package shell provides the sh applet: a POSIX shell interpreter
// that resolves every command against the toolbox through the nested
// invocation bridge. Pipelines, redirections, variable expansion and
// control flow come from the interpreter; command execution stays in
// process, one child invocation per simple command. Nothing is ever
// exec'd.
//
// A command naming no registered applet fails with status 127 the way
// a shell reports a missing binary, so `missing || fallback` behaves
// as expected.
package shell
