// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gobox/internal/issue"
	"gobox/pkg/cueutil"
	"gobox/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "gobox"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvConfigFile names the environment variable that forces a
	// specific config file path.
	EnvConfigFile = "GOBOX_CONFIG"

	// envPrefix scopes viper's environment overrides: GOBOX_STRATEGY,
	// GOBOX_LOG_LEVEL, and so on.
	envPrefix = "GOBOX"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride allows tests to override the config directory.
// This is necessary because os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI).
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the gobox configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("strategy", defaults.Strategy.String())
	v.SetDefault("direct_threshold", defaults.DirectThreshold)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("log_level", defaults.LogLevel.String())
	v.SetDefault("latency", defaults.Latency.String())
	v.SetDefault("disabled", []string{})

	// GOBOX_* variables override both defaults and file values.
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Explicit options beat the environment; GOBOX_CONFIG fills in
	// only when the caller pinned neither a file nor a directory.
	filePath, fromEnv := opts.ConfigFilePath.String(), false
	if filePath == "" && opts.ConfigDirPath == "" {
		if p := os.Getenv(EnvConfigFile); p != "" {
			filePath, fromEnv = p, true
		}
	}

	resolvedPath := ""

	if filePath != "" {
		if !fileExists(filePath) {
			ec := issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(filePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable")
			if fromEnv {
				ec = ec.WithSuggestion("Unset GOBOX_CONFIG to fall back to the default lookup")
			}
			return nil, "", ec.
				Wrap(fmt.Errorf("config file not found: %s", filePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, filePath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(filePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values against the config schema").
				WithSuggestion("Remove the file to run on built-in defaults").
				Wrap(err).
				BuildError()
		}
		resolvedPath = filePath
	} else {
		// Get config directory
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
		if err != nil {
			return nil, "", err
		}

		// Try to load the CUE config file; a missing file means
		// defaults, not an error.
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the values against the config schema").
					WithSuggestion("Remove the file to run on built-in defaults").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Recheck enums and bounds on the decoded struct: GOBOX_*
	// environment overrides never pass through the CUE schema.
	if valid, errs := cfg.IsValid(); !valid {
		ec := issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Valid strategy values are mixed, direct, and indirect").
			WithSuggestion("Valid log_level values are debug, info, warn, and error").
			WithSuggestion("Check GOBOX_* environment variables for stray values")
		if resolvedPath != "" {
			ec = ec.WithResource(resolvedPath)
		}
		return nil, "", ec.Wrap(errs[0]).BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The parse is manual rather than a generic decode because the result
// feeds viper: the unified value decodes to map[string]any, validation
// runs with Concrete(false) since every field is optional, and the map
// merges under existing defaults and environment overrides.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	// Read CUE file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Check file size using cueutil
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	// Parse with CUE
	ctx := cuecontext.New()

	// Compile the schema
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	// Compile the user's config file
	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with schema to validate against the #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Decode to Go map
	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
