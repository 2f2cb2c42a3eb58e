// SPDX-License-Identifier: MPL-2.0

package box

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"gobox/pkg/applet"
)

// Registry is the sealed name→descriptor table of a build. It is
// populated once during construction and read-only afterwards, which
// makes lookups safe for concurrent use without locking.
type Registry struct {
	byName map[string]applet.Descriptor
	names  []string
}

// newRegistry seals the descriptor set. Duplicate or invalid
// descriptors fail with a ConfigurationError.
func newRegistry(descs []applet.Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]applet.Descriptor, len(descs))}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, &ConfigurationError{Reason: "bad descriptor", Err: err}
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate applet %q", d.Name)}
		}
		r.byName[d.Name] = d
	}
	r.names = maps.Keys(r.byName)
	slices.Sort(r.names)
	return r, nil
}

// Lookup returns the descriptor registered under name. The match is
// exact: no prefix or fuzzy resolution, and a miss is an ordinary
// (zero, false) result.
func (r *Registry) Lookup(name string) (applet.Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered applet names, sorted. The slice is a
// copy; callers may keep it.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered applets.
func (r *Registry) Len() int {
	return len(r.byName)
}
