// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"gobox/internal/config"
	"gobox/internal/observability"
	"gobox/pkg/applet"
	"gobox/pkg/applets/core"
	"gobox/pkg/applets/shd"
	"gobox/pkg/applets/shell"
	"gobox/pkg/applets/uroot"
	"gobox/pkg/box"
)

// DefaultDescriptors returns every applet compiled into the gobox
// reference binary: the core text utilities, the u-root filesystem
// family, the shell, and the SSH daemon.
func DefaultDescriptors() []applet.Descriptor {
	descs := core.Descriptors()
	descs = append(descs, uroot.Descriptors()...)
	descs = append(descs, shell.Descriptor(), shd.Descriptor())
	return descs
}

// BuildToolbox translates the loaded configuration into a sealed box:
// the disabled list prunes the default applet set, and the remaining
// knobs map one-to-one onto the dispatch layer. This is the binary's
// single immutability point; nothing reconfigures the box afterwards.
func BuildToolbox(cfg *config.Config, logger *log.Logger) (*box.Box, error) {
	descs := DefaultDescriptors()
	if len(cfg.Disabled) > 0 {
		kept := descs[:0]
		for _, d := range descs {
			if !cfg.IsDisabled(d.Name) {
				kept = append(kept, d)
			}
		}
		descs = kept
	}

	tel, err := observability.New(observability.Config{})
	if err != nil {
		return nil, err
	}

	return box.New(box.Config{
		Applets:         descs,
		Strategy:        strategyPreference(cfg.Strategy),
		DirectThreshold: cfg.DirectThreshold,
		MaxDepth:        cfg.MaxDepth,
		Latency:         latencyPreference(cfg.Latency),
		Logger:          logger,
		Telemetry:       tel,
	})
}

// newLogger builds the process logger the box and multiplexer share.
func newLogger(w io.Writer, lvl config.LogLevel) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:  logLevel(lvl),
		Prefix: "gobox",
	})
}

func strategyPreference(s config.Strategy) box.StrategyPreference {
	switch s {
	case config.StrategyDirect:
		return box.StrategyPreference{PreferDirect: true}
	case config.StrategyIndirect:
		return box.StrategyPreference{PreferIndirect: true}
	default:
		return box.StrategyPreference{}
	}
}

func latencyPreference(l config.Latency) applet.Preference {
	if l == config.LatencyLow {
		return applet.LatencyLow
	}
	return applet.LatencyDefault
}

func logLevel(l config.LogLevel) log.Level {
	switch l {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelInfo:
		return log.InfoLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
