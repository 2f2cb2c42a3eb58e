// SPDX-License-Identifier: MPL-2.0

package mux

import (
	"path/filepath"
	"strings"

	"gobox/pkg/box"
)

// DefaultSuffixes are stripped from the argv[0] basename before
// resolution, so an aliased "cat.exe" still resolves to cat.
var DefaultSuffixes = []string{".exe"}

// Resolution is a successful name resolution.
type Resolution struct {
	// Name is the resolved applet name.
	Name string
	// Args is the invocation's argument vector: Args[0] is Name,
	// operands follow verbatim.
	Args []string
	// Shifted reports that the first-argument fallback was used, with
	// the vector shifted left by one.
	Shifted bool
}

// Resolve applies the multi-call resolution policy to argv: the
// argv[0] basename (suffix-stripped) wins when registered, otherwise
// the first argument resolves with a shift. Both misses mean the
// invocation addresses no applet.
func Resolve(b *box.Box, argv, suffixes []string) (Resolution, bool) {
	if len(argv) == 0 {
		return Resolution{}, false
	}

	base := stripSuffixes(filepath.Base(argv[0]), suffixes)
	if _, ok := b.Lookup(base); ok {
		return Resolution{
			Name: base,
			Args: append([]string{base}, argv[1:]...),
		}, true
	}

	if len(argv) >= 2 {
		if _, ok := b.Lookup(argv[1]); ok {
			return Resolution{
				Name:    argv[1],
				Args:    append([]string{argv[1]}, argv[2:]...),
				Shifted: true,
			}, true
		}
	}

	return Resolution{}, false
}

func stripSuffixes(name string, suffixes []string) string {
	for _, s := range suffixes {
		if trimmed, ok := strings.CutSuffix(name, s); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}
