package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	cmd := exec.Command("go", append([]string{"run", "."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestExternalHelpFlag(t *testing.T) {
	out, err := runCLI(t, "", "-h")
	if err != nil {
		t.Fatalf("expected help flag to succeed, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "-line-ending string") {
		t.Fatalf("help output missing -line-ending:\n%s", out)
	}
}

func TestExternalRejectsInvalidLineEnding(t *testing.T) {
	out, err := runCLI(t, "x", "-line-ending=nl")
	if err == nil {
		t.Fatalf("expected invalid line ending to fail")
	}
	if !strings.Contains(out, "invalid line ending") {
		t.Fatalf("unexpected error output:\n%s", out)
	}
}

func TestExternalJSONFromStdin(t *testing.T) {
	out, err := runCLI(t, "let x = 1\n", "-json", "-lang", "javascript", "-highlight", "4:5")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	for _, want := range []string{`"file": "<stdin>"`, `"highlighted": true`, `"content": "x"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
	}
}

func TestExternalPlainOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "", "-no-numbers", "-backend", "plain", path)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "one\ntwo\n") {
		t.Fatalf("unexpected output:\n%q", out)
	}
}
