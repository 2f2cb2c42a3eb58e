// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the
// toolbox's outer layers (configuration loading, the reference binary,
// the shd daemon). Each type carries semantic meaning and its own
// validation but no domain behavior.
//
// This package is a leaf dependency: it imports only the standard
// library. Other packages import it; it never imports them.
package types
