// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for working with CUE documents:
// user-facing error formatting and a file size guard.
//
// FormatError flattens a CUE error list into messages prefixed with the
// source file and a JSON-path to the offending field, so a misconfigured
// value reads as "config.cue: disabled[2]: expected string, got int"
// rather than a raw CUE diagnostic. CheckFileSize bounds how much input a
// loader will hand to the CUE evaluator.
package cueutil
