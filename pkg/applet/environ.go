// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Environ is the environment mapping carried by an Invocation. Keys
// are unique; it is not safe for concurrent mutation, which is fine
// because each in-flight invocation owns its own copy.
type Environ struct {
	m map[string]string
}

// NewEnviron builds an Environ from KEY=value pairs, typically
// os.Environ(). Pairs without '=' are ignored; on duplicate keys the
// last pair wins.
func NewEnviron(pairs []string) *Environ {
	e := &Environ{m: make(map[string]string, len(pairs))}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e.m[k] = v
	}
	return e
}

// Lookup returns the value for key and whether it is set.
func (e *Environ) Lookup(key string) (string, bool) {
	v, ok := e.m[key]
	return v, ok
}

// Get returns the value for key, or "" when unset.
func (e *Environ) Get(key string) string {
	return e.m[key]
}

// Set stores key=value. Empty keys are ignored.
func (e *Environ) Set(key, value string) {
	if key == "" {
		return
	}
	e.m[key] = value
}

// Unset removes key.
func (e *Environ) Unset(key string) {
	delete(e.m, key)
}

// Len returns the number of variables.
func (e *Environ) Len() int {
	return len(e.m)
}

// Clone returns an independent copy. Mutating the clone never affects
// the original, which is what lets nested invocations inherit their
// parent's environment safely.
func (e *Environ) Clone() *Environ {
	return &Environ{m: maps.Clone(e.m)}
}

// Strings returns the mapping as sorted KEY=value pairs. The order is
// deterministic so repeated invocations observe identical input.
func (e *Environ) Strings() []string {
	keys := maps.Keys(e.m)
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.m[k])
	}
	return out
}
