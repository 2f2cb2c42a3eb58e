// SPDX-License-Identifier: MPL-2.0

package shd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/charmbracelet/log"

	"gobox/pkg/applet"
	"gobox/pkg/types"
)

const (
	// DefaultAddr is the listen address when -addr is not given.
	DefaultAddr = "127.0.0.1:2222"
	// PasswordVar is the environment variable consulted for the
	// session password when -password-env is not given.
	PasswordVar = "SHD_PASSWORD"
)

// Descriptor returns the registration record for the shd applet. The
// weight marks it heavyweight, so the mixed strategy binds it
// indirectly.
func Descriptor() applet.Descriptor {
	return applet.Descriptor{
		Name:     "shd",
		Synopsis: "serve the toolbox over SSH",
		Weight:   8,
		Factory:  func() applet.Applet { return shdApplet{} },
	}
}

// validateAddr rejects malformed listen addresses before the server
// ever touches the network. Port 0 passes: it means auto-select.
func validateAddr(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("bad listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("bad listen port %q: must be numeric", portStr)
	}
	return types.ListenPort(port).Validate()
}

// shdApplet implements the shd utility.
type shdApplet struct{}

// Name returns the applet name.
func (shdApplet) Name() string { return "shd" }

// Synopsis returns the one-line description.
func (shdApplet) Synopsis() string { return "serve the toolbox over SSH" }

// Run starts the daemon and blocks until cancellation or a serve
// failure. The bound address is announced on stdout once the listener
// is ready, so callers asking for an auto-selected port can find it.
func (shdApplet) Run(ctx context.Context, inv *applet.Invocation) error {
	fs := flag.NewFlagSet("shd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", DefaultAddr, "listen address")
	passwordVar := fs.String("password-env", PasswordVar, "environment variable holding the session password")
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return applet.Usagef("shd", "%v", err)
	}
	if operands := fs.Args(); len(operands) > 0 {
		return applet.Usagef("shd", "unexpected operand %q", operands[0])
	}
	if err := validateAddr(*addr); err != nil {
		return applet.Usagef("shd", "%v", err)
	}

	password, _ := inv.Env.Lookup(*passwordVar)
	if password == "" {
		return applet.Usagef("shd", "no session password in $%s", *passwordVar)
	}
	if inv.Invoker() == nil {
		return errors.New("shd: no invoker bound to the invocation")
	}

	srv := NewServer(Config{
		Addr:     *addr,
		Password: password,
		Logger:   log.NewWithOptions(inv.Stderr, log.Options{Prefix: "shd"}),
	}, inv)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("shd: %w", err)
	}
	fmt.Fprintf(inv.Stdout, "listening on %s\n", srv.Address())

	select {
	case <-ctx.Done():
		if err := srv.Stop(); err != nil {
			return fmt.Errorf("shd: %w", err)
		}
		return ctx.Err()
	case err, ok := <-srv.Err():
		if ok && err != nil {
			_ = srv.Stop()
			return fmt.Errorf("shd: %w", err)
		}
		return nil
	}
}
