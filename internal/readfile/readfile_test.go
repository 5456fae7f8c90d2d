package readfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSourceKeepsBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty file", in: ""},
		{name: "unix newlines", in: "one\ntwo\n"},
		{name: "windows newlines", in: "one\r\ntwo\r\n"},
		{name: "standalone carriage returns", in: "a\rb\n\r\n"},
		{name: "multi-byte", in: "a😀b\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "input.txt")
			if err := os.WriteFile(path, []byte(tc.in), 0o644); err != nil {
				t.Fatalf("write temp file: %v", err)
			}

			got, err := Source(path, nil)
			if err != nil {
				t.Fatalf("Source: %v", err)
			}
			if got != tc.in {
				t.Fatalf("got %q want %q", got, tc.in)
			}
		})
	}
}

func TestSourceStdin(t *testing.T) {
	for _, path := range []string{"", "-"} {
		got, err := Source(path, strings.NewReader("x\r\ny"))
		if err != nil {
			t.Fatalf("Source(%q): %v", path, err)
		}
		if got != "x\r\ny" {
			t.Fatalf("Source(%q) = %q", path, got)
		}
	}
}

func TestSourceMissingFile(t *testing.T) {
	_, err := Source(filepath.Join(t.TempDir(), "nope"), nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFirstLine(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"#!/bin/sh\necho":       "#!/bin/sh",
		"#!/usr/bin/env python": "#!/usr/bin/env python",
		"a\r\nb":                "a",
	}
	for in, want := range cases {
		if got := FirstLine(in); got != want {
			t.Fatalf("FirstLine(%q) = %q, want %q", in, got, want)
		}
	}
}
