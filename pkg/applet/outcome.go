// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"context"
	"errors"
	"fmt"
)

// Class partitions every invocation result. Consumers branch on the
// class alone; the diagnostic is presentation, not protocol.
type Class uint8

const (
	// ClassSuccess is normal completion.
	ClassSuccess Class = iota
	// ClassUsage is caller error: unknown utility, bad flag, bad
	// operand.
	ClassUsage
	// ClassRuntime is a failure during execution, including explicit
	// nonzero exit codes and recovered panics.
	ClassRuntime
	// ClassSignaled is termination attributed to a delivered signal.
	ClassSignaled
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassUsage:
		return "usage"
	case ClassRuntime:
		return "runtime"
	case ClassSignaled:
		return "signaled"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Outcome is the single result of one invocation: a class, the
// process exit code it maps to, and an optional diagnostic. Exactly
// one Outcome is produced per invocation, by the dispatch layer.
type Outcome struct {
	Class Class
	Code  int
	Diag  string
}

// Success reports whether the invocation completed normally.
func (o Outcome) Success() bool {
	return o.Class == ClassSuccess
}

// String renders the outcome for logs.
func (o Outcome) String() string {
	if o.Diag == "" {
		return fmt.Sprintf("%s (exit %d)", o.Class, o.Code)
	}
	return fmt.Sprintf("%s (exit %d): %s", o.Class, o.Code, o.Diag)
}

// CodeMap fixes the numeric exit code for each class. The zero value
// is not useful; start from DefaultCodeMap.
type CodeMap struct {
	// Success is the code for normal completion.
	Success int
	// Usage is the code for caller mistakes.
	Usage int
	// Runtime is the code for execution failures without an explicit
	// code of their own.
	Runtime int
	// SignalBase is added to the signal number for signaled
	// terminations, the shell convention.
	SignalBase int
}

// DefaultCodeMap is the conventional mapping: 0 success, 2 usage,
// 1 runtime, 128+n signaled.
var DefaultCodeMap = CodeMap{Success: 0, Usage: 2, Runtime: 1, SignalBase: 128}

// Validate checks that every mapped code stays within the 0..255
// range a process can actually report.
func (m CodeMap) Validate() error {
	for _, c := range []struct {
		name string
		code int
	}{
		{"success", m.Success},
		{"usage", m.Usage},
		{"runtime", m.Runtime},
		{"signal base", m.SignalBase},
	} {
		if c.code < 0 || c.code > 255 {
			return fmt.Errorf("%s code %d outside 0..255", c.name, c.code)
		}
	}
	return nil
}

// Outcome classifies the result of running inv. This is the single
// classification point: nil is success, UsageError is usage,
// SignalError is signaled, ExitError keeps its code, and a
// context cancellation counts as signaled when a signal is on record
// for the invocation. Everything else is a runtime failure carrying
// the error text as diagnostic.
func (m CodeMap) Outcome(inv *Invocation, err error) Outcome {
	if err == nil {
		return Outcome{Class: ClassSuccess, Code: m.Success}
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return Outcome{Class: ClassUsage, Code: m.Usage, Diag: usage.Error()}
	}

	var sigErr *SignalError
	if errors.As(err, &sigErr) {
		return Outcome{Class: ClassSignaled, Code: m.SignalBase + sigErr.Num(), Diag: sigErr.Error()}
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		if exit.Code == 0 {
			return Outcome{Class: ClassSuccess, Code: m.Success}
		}
		return Outcome{Class: ClassRuntime, Code: exit.Code}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if inv != nil {
			if sig := inv.Signal(); sig != nil {
				return Outcome{
					Class: ClassSignaled,
					Code:  m.SignalBase + signum(sig),
					Diag:  "signal: " + sig.String(),
				}
			}
		}
		return Outcome{Class: ClassRuntime, Code: m.Runtime, Diag: err.Error()}
	}

	return Outcome{Class: ClassRuntime, Code: m.Runtime, Diag: err.Error()}
}
