// SPDX-License-Identifier: MPL-2.0

// Package cli is the gobox binary's housekeeping surface: list,
// install, and version. The multiplexer always runs first — any argv
// that resolves to a registered applet dispatches as that applet, and
// cobra only sees what is left over. A registered applet therefore
// shadows a housekeeping command of the same name; the default applet
// sets avoid those names.
package cli
