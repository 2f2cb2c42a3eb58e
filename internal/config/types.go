// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// StrategyMixed binds light applets directly and routes heavy
	// ones through the registry.
	StrategyMixed Strategy = "mixed"
	// StrategyDirect binds every applet to its captured factory.
	StrategyDirect Strategy = "direct"
	// StrategyIndirect resolves every applet through the registry at
	// call time.
	StrategyIndirect Strategy = "indirect"

	// LogLevelDebug enables per-dispatch diagnostics.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo enables lifecycle messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn reports recoverable problems. This is the default.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError restricts output to failures.
	LogLevelError LogLevel = "error"

	// LatencyDefault lets streaming applets batch writes for
	// throughput. This is the default.
	LatencyDefault Latency = "default"
	// LatencyLow biases streaming applets toward prompt small writes.
	LatencyLow Latency = "low"

	// DefaultDirectThreshold mirrors the dispatch-layer default.
	// Defined locally to avoid coupling config to pkg/box; the binary
	// translates at the boundary.
	DefaultDirectThreshold = 4
	// DefaultMaxDepth mirrors the dispatch-layer recursion bound.
	// Defined locally to avoid coupling config to pkg/box.
	DefaultMaxDepth = 64
)

var (
	// ErrInvalidStrategy is returned when a Strategy value is not recognized.
	ErrInvalidStrategy = errors.New("invalid strategy")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLatency is returned when a Latency value is not recognized.
	ErrInvalidLatency = errors.New("invalid latency preference")
	// ErrInvalidAppletName is the sentinel error wrapped by InvalidAppletNameError.
	ErrInvalidAppletName = errors.New("invalid applet name")
	// ErrInvalidDirectThreshold is returned when a direct threshold is negative.
	ErrInvalidDirectThreshold = errors.New("invalid direct threshold")
	// ErrInvalidMaxDepth is returned when a max depth is negative.
	ErrInvalidMaxDepth = errors.New("invalid max depth")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Strategy selects how the toolbox binds applets. Defined locally
	// to avoid coupling config to pkg/box; the binary casts to
	// box.StrategyPreference at the boundary.
	Strategy string

	// InvalidStrategyError is returned when a Strategy value is not recognized.
	// It wraps ErrInvalidStrategy for errors.Is() compatibility.
	InvalidStrategyError struct {
		Value Strategy
	}

	// LogLevel selects the dispatch diagnostics level. The binary
	// maps it to a charmbracelet/log level at the boundary.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Latency biases buffering inside streaming applets. The binary
	// maps it to an applet.Preference at the boundary.
	Latency string

	// InvalidLatencyError is returned when a Latency value is not
	// recognized. It wraps ErrInvalidLatency for errors.Is().
	InvalidLatencyError struct {
		Value Latency
	}

	// AppletName identifies a toolbox applet on the disabled list.
	// A valid name must be non-empty and not whitespace-only.
	AppletName string

	// InvalidAppletNameError is returned when an AppletName value is
	// empty or whitespace-only. It wraps ErrInvalidAppletName for errors.Is().
	InvalidAppletNameError struct {
		Value AppletName
	}

	// InvalidDirectThresholdError is returned when a direct threshold
	// is negative. It wraps ErrInvalidDirectThreshold for errors.Is().
	InvalidDirectThresholdError struct {
		Value int
	}

	// InvalidMaxDepthError is returned when a max depth is negative.
	// It wraps ErrInvalidMaxDepth for errors.Is() compatibility.
	InvalidMaxDepthError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all fields.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the toolbox build configuration.
	Config struct {
		// Strategy selects the dispatch strategy preference.
		Strategy Strategy `json:"strategy" mapstructure:"strategy"`
		// DirectThreshold is the applet weight at which the mixed
		// strategy switches to registry-backed dispatch. Zero keeps
		// the dispatch-layer default.
		DirectThreshold int `json:"direct_threshold" mapstructure:"direct_threshold"`
		// MaxDepth bounds nested invocations made through the bridge.
		// Zero keeps the dispatch-layer default.
		MaxDepth int `json:"max_depth" mapstructure:"max_depth"`
		// LogLevel sets the dispatch diagnostics level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Latency biases buffering inside streaming applets.
		Latency Latency `json:"latency" mapstructure:"latency"`
		// Disabled lists applets removed from the toolbox.
		Disabled []AppletName `json:"disabled" mapstructure:"disabled"`
	}
)

// String returns the string representation of the Strategy.
func (s Strategy) String() string { return string(s) }

// IsValid returns whether the Strategy is one of the defined strategies,
// and a list of validation errors if it is not.
func (s Strategy) IsValid() (bool, []error) {
	switch s {
	case StrategyMixed, StrategyDirect, StrategyIndirect:
		return true, nil
	default:
		return false, []error{&InvalidStrategyError{Value: s}}
	}
}

// Error implements the error interface for InvalidStrategyError.
func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid strategy %q (valid: mixed, direct, indirect)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStrategyError) Unwrap() error {
	return ErrInvalidStrategy
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the Latency.
func (l Latency) String() string { return string(l) }

// IsValid returns whether the Latency is one of the defined
// preferences, and a list of validation errors if it is not.
func (l Latency) IsValid() (bool, []error) {
	switch l {
	case LatencyDefault, LatencyLow:
		return true, nil
	default:
		return false, []error{&InvalidLatencyError{Value: l}}
	}
}

// Error implements the error interface for InvalidLatencyError.
func (e *InvalidLatencyError) Error() string {
	return fmt.Sprintf("invalid latency preference %q (valid: default, low)", e.Value)
}

// Unwrap returns ErrInvalidLatency for errors.Is() compatibility.
func (e *InvalidLatencyError) Unwrap() error { return ErrInvalidLatency }

// String returns the string representation of the AppletName.
func (n AppletName) String() string { return string(n) }

// IsValid returns whether the AppletName is valid.
// A valid name must be non-empty and not whitespace-only.
func (n AppletName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidAppletNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAppletNameError.
func (e *InvalidAppletNameError) Error() string {
	return fmt.Sprintf("invalid applet name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidAppletName for errors.Is() compatibility.
func (e *InvalidAppletNameError) Unwrap() error { return ErrInvalidAppletName }

// Error implements the error interface for InvalidDirectThresholdError.
func (e *InvalidDirectThresholdError) Error() string {
	return fmt.Sprintf("invalid direct threshold %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidDirectThreshold for errors.Is() compatibility.
func (e *InvalidDirectThresholdError) Unwrap() error { return ErrInvalidDirectThreshold }

// Error implements the error interface for InvalidMaxDepthError.
func (e *InvalidMaxDepthError) Error() string {
	return fmt.Sprintf("invalid max depth %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidMaxDepth for errors.Is() compatibility.
func (e *InvalidMaxDepthError) Unwrap() error { return ErrInvalidMaxDepth }

// IsValid returns whether the Config has valid fields.
// It delegates to Strategy.IsValid(), LogLevel.IsValid(), and each
// Disabled entry's IsValid(), and checks the numeric bounds the CUE
// schema enforces for file-sourced values. Environment overrides skip
// the schema, so the bounds are rechecked here.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Strategy.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.DirectThreshold < 0 {
		errs = append(errs, &InvalidDirectThresholdError{Value: c.DirectThreshold})
	}
	if c.MaxDepth < 0 {
		errs = append(errs, &InvalidMaxDepthError{Value: c.MaxDepth})
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Latency.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, name := range c.Disabled {
		if valid, fieldErrs := name.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsDisabled reports whether the named applet is on the disabled list.
func (c *Config) IsDisabled(name string) bool {
	return slices.Contains(c.Disabled, AppletName(name))
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fieldErr := range e.FieldErrors {
		msgs[i] = fieldErr.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Strategy:        StrategyMixed,
		DirectThreshold: DefaultDirectThreshold,
		MaxDepth:        DefaultMaxDepth,
		LogLevel:        LogLevelWarn,
		Latency:         LatencyDefault,
		Disabled:        []AppletName{},
	}
}
