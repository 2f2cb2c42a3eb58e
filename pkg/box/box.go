// SPDX-License-Identifier: MPL-2.0

package box

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"gobox/pkg/applet"
)

const (
	// DefaultMaxDepth bounds nested bridge invocations per process.
	DefaultMaxDepth = 64
	// DefaultDirectThreshold is the weight at which the mixed
	// strategy switches an applet from a direct to an indirect
	// binding.
	DefaultDirectThreshold = 4
)

type (
	// Config is the single build-time configuration of a toolbox. It
	// is consumed exactly once by New; the resulting Box is immutable.
	Config struct {
		// Applets is the selected utility set. Must be non-empty;
		// names must be unique.
		Applets []applet.Descriptor
		// Strategy picks the dispatch preference. The zero value is
		// StrategyMixed.
		Strategy StrategyPreference
		// DirectThreshold is the weight bound used by the mixed
		// strategy. Zero means DefaultDirectThreshold.
		DirectThreshold int
		// MaxDepth bounds nested invocation. Zero means
		// DefaultMaxDepth.
		MaxDepth int
		// Latency is the buffering bias handed to every root
		// invocation dispatched through this box.
		Latency applet.Preference
		// Codes maps outcome classes to exit codes. The zero value
		// means applet.DefaultCodeMap.
		Codes applet.CodeMap
		// Logger receives dispatch diagnostics at debug level. Nil
		// means the process default logger.
		Logger *log.Logger
		// Telemetry receives one record per dispatch. Nil disables
		// instrumentation.
		Telemetry Telemetry
	}

	// Box is an assembled toolbox: sealed registry, per-applet
	// bindings, and the bridge for nested invocation. Safe for
	// concurrent use.
	Box struct {
		registry  *Registry
		bindings  map[string]Binding
		strategy  Strategy
		threshold int
		maxDepth  int
		latency   applet.Preference
		codes     applet.CodeMap
		logger    *log.Logger
		telemetry Telemetry
	}

	// Telemetry observes dispatches. OnDispatch runs before the
	// applet; the returned function runs after classification with
	// the final outcome. Implementations must be safe for concurrent
	// use.
	Telemetry interface {
		OnDispatch(ctx context.Context, name string, strategy Strategy) (context.Context, func(applet.Outcome))
	}
)

// New validates cfg, seals the registry, and builds one binding per
// applet. Every configuration problem is reported as a
// ConfigurationError; nothing panics at dispatch time.
func New(cfg Config) (*Box, error) {
	if len(cfg.Applets) == 0 {
		return nil, &ConfigurationError{Reason: "no applets configured"}
	}
	if cfg.MaxDepth < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("negative max depth %d", cfg.MaxDepth)}
	}
	if cfg.DirectThreshold < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("negative direct threshold %d", cfg.DirectThreshold)}
	}

	codes := cfg.Codes
	if codes == (applet.CodeMap{}) {
		codes = applet.DefaultCodeMap
	}
	if err := codes.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: "bad code map", Err: err}
	}

	registry, err := newRegistry(cfg.Applets)
	if err != nil {
		return nil, err
	}

	b := &Box{
		registry:  registry,
		strategy:  cfg.Strategy.resolve(),
		threshold: cfg.DirectThreshold,
		maxDepth:  cfg.MaxDepth,
		latency:   cfg.Latency,
		codes:     codes,
		logger:    cfg.Logger,
		telemetry: cfg.Telemetry,
	}
	if b.threshold == 0 {
		b.threshold = DefaultDirectThreshold
	}
	if b.maxDepth == 0 {
		b.maxDepth = DefaultMaxDepth
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	if b.telemetry == nil {
		b.telemetry = noopTelemetry{}
	}

	b.bindings = make(map[string]Binding, registry.Len())
	for _, name := range registry.Names() {
		desc, _ := registry.Lookup(name)
		b.bindings[name] = b.bind(desc)
	}

	b.logger.Debug("toolbox sealed",
		"applets", registry.Len(),
		"strategy", b.strategy,
		"max_depth", b.maxDepth,
	)
	return b, nil
}

// Lookup returns the binding for name. Exact match only; a miss is an
// ordinary (nil, false) result.
func (b *Box) Lookup(name string) (Binding, bool) {
	bind, ok := b.bindings[name]
	return bind, ok
}

// Names returns the registered applet names, sorted.
func (b *Box) Names() []string {
	return b.registry.Names()
}

// Bindings returns all bindings in name order, for listings.
func (b *Box) Bindings() []Binding {
	out := make([]Binding, 0, len(b.bindings))
	for _, name := range b.registry.Names() {
		out = append(out, b.bindings[name])
	}
	return out
}

// Codes returns the exit-code mapping in force.
func (b *Box) Codes() applet.CodeMap {
	return b.codes
}

// MaxDepth returns the nested-invocation bound.
func (b *Box) MaxDepth() int {
	return b.maxDepth
}

// Latency returns the configured buffering bias.
func (b *Box) Latency() applet.Preference {
	return b.latency
}

// Strategy returns the resolved dispatch strategy.
func (b *Box) Strategy() Strategy {
	return b.strategy
}

// UnknownUtility builds the usage error for an unresolvable name,
// carrying the registered names as a hint.
func (b *Box) UnknownUtility(name string) *applet.UsageError {
	return &applet.UsageError{
		Msg: fmt.Sprintf("%q: unknown utility (registered: %s)", name, strings.Join(b.Names(), ", ")),
	}
}

// noopTelemetry is the default instrumentation: none.
type noopTelemetry struct{}

func (noopTelemetry) OnDispatch(ctx context.Context, _ string, _ Strategy) (context.Context, func(applet.Outcome)) {
	return ctx, func(applet.Outcome) {}
}
