// SPDX-License-Identifier: MPL-2.0

// Package shd provides the shd applet: an SSH daemon that exposes the
// toolbox over the wire. Each session's command dispatches through the
// nested invocation bridge against the session's streams; a session
// with no command gets the sh applet, so `ssh box 'echo hi | head'`
// and a piped interactive session both work without any subprocess.
//
// Sessions authenticate with a shared password taken from the
// daemon's environment. The server refuses to start without one and
// binds to loopback by default.
package shd
