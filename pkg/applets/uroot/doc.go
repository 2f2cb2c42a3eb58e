// SPDX-License-Identifier: MPL-2.0

// Package uroot provides the filesystem and archive applet family,
// backed by the u-root project's in-process command implementations.
// Every command runs against the invocation's streams, working
// directory, and environment; nothing reaches for ambient process
// state.
package uroot
