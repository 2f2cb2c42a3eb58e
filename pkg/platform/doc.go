// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the cross-platform naming concerns of
// a multi-call binary: GOOS comparison constants and the Windows
// reserved device names an applet link must avoid.
package platform
