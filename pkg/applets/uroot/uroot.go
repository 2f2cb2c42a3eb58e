// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"
	"fmt"

	"github.com/u-root/u-root/pkg/core"
	"github.com/u-root/u-root/pkg/core/base64"
	"github.com/u-root/u-root/pkg/core/chmod"
	"github.com/u-root/u-root/pkg/core/cp"
	"github.com/u-root/u-root/pkg/core/find"
	"github.com/u-root/u-root/pkg/core/gzip"
	"github.com/u-root/u-root/pkg/core/ls"
	"github.com/u-root/u-root/pkg/core/mkdir"
	"github.com/u-root/u-root/pkg/core/mktemp"
	"github.com/u-root/u-root/pkg/core/mv"
	"github.com/u-root/u-root/pkg/core/rm"
	"github.com/u-root/u-root/pkg/core/shasum"
	"github.com/u-root/u-root/pkg/core/tar"
	"github.com/u-root/u-root/pkg/core/touch"

	"gobox/pkg/applet"
)

// coreApplet adapts one u-root core command to the applet contract.
// The invocation's streams, working directory, and environment are
// injected before the command runs, so relative operands resolve
// against the invocation and never against the real process.
type coreApplet struct {
	name     string
	synopsis string
	make     func() core.Command
	fullArgv bool // the command inspects argv[0] (gzip: gunzip/gzcat)
}

// Name returns the applet name.
func (a coreApplet) Name() string { return a.name }

// Synopsis returns the one-line description.
func (a coreApplet) Synopsis() string { return a.synopsis }

// Run configures a fresh command instance from the invocation and
// executes it. Flag parsing is the command's own; errors come back
// prefixed with the applet name for classification upstream.
func (a coreApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	cmd := a.make()
	cmd.SetIO(inv.Stdin, inv.Stdout, inv.Stderr)
	cmd.SetWorkingDir(inv.Dir)
	cmd.SetLookupEnv(inv.Env.Lookup)

	args := inv.Args[1:]
	if a.fullArgv {
		// gzip keys decompress/cat behavior off argv[0] (gunzip,
		// gzcat), so it receives the vector unshifted.
		args = inv.Args
	}
	if err := cmd.RunContext(ctx, args...); err != nil {
		return fmt.Errorf("%s: %w", a.name, err)
	}
	return nil
}

// mk erases a concrete constructor to the core.Command factory shape.
func mk[C core.Command](fn func() C) func() core.Command {
	return func() core.Command { return fn() }
}

// Descriptors returns the u-root-backed applet family in registration
// order. Weights straddle the default direct threshold so a
// mixed-strategy toolbox binds the light commands directly and routes
// the heavy ones through the registry.
//
// cat is deliberately absent: the core applet set registers one, and
// duplicate names fail toolbox construction.
func Descriptors() []applet.Descriptor {
	family := []struct {
		weight int
		app    coreApplet
	}{
		{2, coreApplet{"base64", "base64 encode or decode standard input or files", mk(base64.New), false}},
		{2, coreApplet{"chmod", "change file mode bits", mk(chmod.New), false}},
		{2, coreApplet{"mkdir", "make directories", mk(mkdir.New), false}},
		{2, coreApplet{"mktemp", "create a temporary file or directory", mk(mktemp.New), false}},
		{2, coreApplet{"touch", "update file timestamps, creating files as needed", mk(touch.New), false}},
		{3, coreApplet{"mv", "move or rename files", mk(mv.New), false}},
		{3, coreApplet{"rm", "remove files or directories", mk(rm.New), false}},
		{3, coreApplet{"shasum", "print SHA checksums", mk(shasum.New), false}},
		{4, coreApplet{"cp", "copy files and directories", mk(cp.New), false}},
		{4, coreApplet{"ls", "list directory contents", mk(ls.New), false}},
		{5, coreApplet{"find", "search for files in a directory hierarchy", mk(find.New), false}},
		{5, coreApplet{"gzip", "compress or decompress files", mk(gzip.New), true}},
		{5, coreApplet{"tar", "create or extract tar archives", mk(tar.New), false}},
	}

	out := make([]applet.Descriptor, 0, len(family))
	for _, f := range family {
		app := f.app
		out = append(out, applet.Descriptor{
			Name:     app.name,
			Synopsis: app.synopsis,
			Weight:   f.weight,
			Factory:  func() applet.Applet { return app },
		})
	}
	return out
}
