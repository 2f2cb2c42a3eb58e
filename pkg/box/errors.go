// SPDX-License-Identifier: MPL-2.0

package box

import "fmt"

type (
	// ConfigurationError reports an invalid Config handed to New.
	ConfigurationError struct {
		// Reason describes what is wrong.
		Reason string
		// Err is the underlying cause, when there is one.
		Err error
	}

	// RecursionError reports a nested invocation past the configured
	// depth bound. It classifies as a runtime failure.
	RecursionError struct {
		// Depth is the rejected invocation's depth.
		Depth int
		// Max is the configured bound.
		Max int
	}
)

// Error implements error.
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid box configuration: %s: %v", e.Reason, e.Err)
	}
	return "invalid box configuration: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Error implements error.
func (e *RecursionError) Error() string {
	return fmt.Sprintf("nested invocation depth %d exceeds limit %d", e.Depth, e.Max)
}
