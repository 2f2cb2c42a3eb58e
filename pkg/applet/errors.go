// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"fmt"
	"os"
	"syscall"
)

type (
	// UsageError reports a caller mistake: unknown flag, bad operand,
	// missing argument. It classifies as ClassUsage.
	UsageError struct {
		// Applet is the utility reporting the mistake, for the
		// conventional "name: message" diagnostic prefix.
		Applet string
		// Msg describes the mistake.
		Msg string
	}

	// ExitError carries an explicit exit code chosen by the utility,
	// the way a shell script's `exit 3` does. Code 0 classifies as
	// ClassSuccess, anything else as ClassRuntime with that code.
	ExitError struct {
		Code int
	}

	// SignalError reports that a utility stopped because of a signal.
	// It classifies as ClassSignaled.
	SignalError struct {
		Sig os.Signal
	}
)

// Usagef builds a UsageError with a formatted message.
func Usagef(applet, format string, args ...any) *UsageError {
	return &UsageError{Applet: applet, Msg: fmt.Sprintf(format, args...)}
}

// Error returns "applet: msg", or just the message when the applet
// name is unknown.
func (e *UsageError) Error() string {
	if e.Applet == "" {
		return e.Msg
	}
	return e.Applet + ": " + e.Msg
}

// Exit builds an ExitError for an explicit code.
func Exit(code int) *ExitError {
	return &ExitError{Code: code}
}

// Error implements error.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Error implements error.
func (e *SignalError) Error() string {
	if e.Sig == nil {
		return "signal: unknown"
	}
	return "signal: " + e.Sig.String()
}

// Num returns the signal number, or 0 when it cannot be determined.
func (e *SignalError) Num() int {
	return signum(e.Sig)
}

// signum extracts the numeric value of a signal. Signals outside the
// syscall domain (test fakes, exotic platforms) report 0.
func signum(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return 0
}
