// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bytes"
	"testing"

	"gobox/pkg/applet"
)

func TestEcho(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no operands",
			args: nil,
			want: "\n",
		},
		{
			name: "single operand",
			args: []string{"hello"},
			want: "hello\n",
		},
		{
			name: "operands joined by spaces",
			args: []string{"hello", "busy", "box"},
			want: "hello busy box\n",
		},
		{
			name: "-n suppresses newline",
			args: []string{"-n", "hello"},
			want: "hello",
		},
		{
			name: "-n alone",
			args: []string{"-n"},
			want: "",
		},
		{
			name: "unknown dashes print literally",
			args: []string{"-x", "ray"},
			want: "-x ray\n",
		},
		{
			name: "-n only counts when leading",
			args: []string{"say", "-n"},
			want: "say -n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			inv := applet.NewInvocation("echo", tt.args, applet.WithStdout(&out))
			if err := newEcho().Run(t.Context(), inv); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
