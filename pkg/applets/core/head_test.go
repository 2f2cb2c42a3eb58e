// SPDX-License-Identifier: MPL-2.0

package core

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gobox/pkg/applet"
)

func TestHeadStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{
			name:  "default ten lines",
			args:  nil,
			input: numberedLines(12),
			want:  numberedLines(10),
		},
		{
			name:  "dash n",
			args:  []string{"-n", "3"},
			input: numberedLines(12),
			want:  numberedLines(3),
		},
		{
			name:  "fewer lines than requested",
			args:  []string{"-n", "5"},
			input: numberedLines(2),
			want:  numberedLines(2),
		},
		{
			name:  "unterminated final line kept as is",
			args:  []string{"-n", "2"},
			input: "one\ntwo",
			want:  "one\ntwo",
		},
		{
			name:  "byte count",
			args:  []string{"-c", "4"},
			input: "abcdefgh",
			want:  "abcd",
		},
		{
			name:  "zero bytes",
			args:  []string{"-c", "0"},
			input: "abcdefgh",
			want:  "",
		},
		{
			name:  "zero lines",
			args:  []string{"-n", "0"},
			input: numberedLines(3),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			inv := applet.NewInvocation("head", tt.args,
				applet.WithStdin(strings.NewReader(tt.input)),
				applet.WithStdout(&out),
			)
			if err := newHead().Run(t.Context(), inv); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func numberedLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestHeadMultipleFilesGetHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a1\na2\n")
	writeFile(t, dir, "b.txt", "b1\n")

	var out bytes.Buffer
	inv := applet.NewInvocation("head", []string{"-n", "1", "a.txt", "b.txt"},
		applet.WithDir(dir),
		applet.WithStdout(&out),
	)
	if err := newHead().Run(t.Context(), inv); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "==> a.txt <==\na1\n\n==> b.txt <==\nb1\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHeadQuietAndVerbose(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a1\n")
	writeFile(t, dir, "b.txt", "b1\n")

	var quiet bytes.Buffer
	inv := applet.NewInvocation("head", []string{"-q", "a.txt", "b.txt"},
		applet.WithDir(dir),
		applet.WithStdout(&quiet),
	)
	if err := newHead().Run(t.Context(), inv); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := quiet.String(); got != "a1\nb1\n" {
		t.Errorf("-q output = %q, want %q", got, "a1\nb1\n")
	}

	var verbose bytes.Buffer
	inv = applet.NewInvocation("head", []string{"-v", "a.txt"},
		applet.WithDir(dir),
		applet.WithStdout(&verbose),
	)
	if err := newHead().Run(t.Context(), inv); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := verbose.String(); got != "==> a.txt <==\na1\n" {
		t.Errorf("-v output = %q, want %q", got, "==> a.txt <==\na1\n")
	}
}

func TestHeadUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"lines and bytes are exclusive", []string{"-n", "1", "-c", "1"}},
		{"negative line count", []string{"-n", "-5"}},
		{"negative byte count", []string{"-c", "-1"}},
		{"unknown flag", []string{"-z"}},
		{"non-numeric count", []string{"-n", "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv := applet.NewInvocation("head", tt.args,
				applet.WithStdin(strings.NewReader("x\n")),
			)
			err := newHead().Run(t.Context(), inv)
			var usage *applet.UsageError
			if !errors.As(err, &usage) {
				t.Errorf("Run(%v) = %v, want UsageError", tt.args, err)
			}
		})
	}
}
