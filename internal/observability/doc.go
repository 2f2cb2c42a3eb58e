// SPDX-License-Identifier: MPL-2.0

// Package observability instruments toolbox dispatches with
// OpenTelemetry: one span per dispatch plus a completion counter and
// a latency histogram. The facade plugs into the box telemetry hook,
// so the dispatch layer itself stays provider-free.
//
// The zero Config binds to the process-global OpenTelemetry
// providers, which are no-ops until the embedder installs real ones;
// embedders that want isolated instrumentation pass their own
// providers instead.
package observability
