// SPDX-License-Identifier: MPL-2.0

package core

import "gobox/pkg/applet"

// Descriptors returns the core applet set in registration order.
// Weights rank relative dispatch cost for the mixed strategy: trivial
// utilities sit at 1, streaming ones at 2 or 3.
func Descriptors() []applet.Descriptor {
	return []applet.Descriptor{
		describe(2, newArch),
		describe(1, newBasename),
		describe(2, newCat),
		describe(1, newDirname),
		describe(1, newEcho),
		describe(2, newEnv),
		describe(1, newFalse),
		describe(3, newGrep),
		describe(3, newHead),
		describe(1, newPwd),
		describe(1, newSeq),
		describe(1, newSleep),
		describe(3, newSort),
		describe(2, newTee),
		describe(2, newTr),
		describe(1, newTrue),
		describe(2, newUniq),
		describe(2, newWc),
		describe(2, newYes),
	}
}

// describe builds a descriptor from a factory, keeping the applet's
// own Name and Synopsis as the single source of truth.
func describe(weight int, factory applet.Factory) applet.Descriptor {
	a := factory()
	return applet.Descriptor{
		Name:     a.Name(),
		Synopsis: a.Synopsis(),
		Weight:   weight,
		Factory:  factory,
	}
}
