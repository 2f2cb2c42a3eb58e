// SPDX-License-Identifier: MPL-2.0

// Package config loads the toolbox build configuration using Viper with
// CUE as the file format.
//
// Configuration is read from $GOBOX_CONFIG when set, otherwise from
// ~/.config/gobox/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/gobox/config.cue on macOS,
// %APPDATA%\gobox\config.cue on Windows). A missing file is not an
// error: the binary runs on defaults. GOBOX_* environment variables
// override individual values from any source.
//
// Files are validated against an embedded CUE schema (config_schema.cue)
// before their values reach viper, so unknown fields and type mismatches
// produce path-aware errors. The decoded Config is translated into the
// dispatch layer's own configuration exactly once at startup; nothing in
// pkg/ imports this package.
package config
