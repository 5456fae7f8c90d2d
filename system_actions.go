package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

const defaultEditorTemplate = "{editor} +{line} {file}"

// editorCommand builds the command that opens file at line. An explicit
// template wins; otherwise $VISUAL or $EDITOR is used, then the platform
// opener.
func editorCommand(file string, line int, col int, template string) (*exec.Cmd, error) {
	target := fmt.Sprintf("%s:%d:%d", file, line, col)

	if strings.TrimSpace(template) == "" {
		editor := strings.TrimSpace(os.Getenv("VISUAL"))
		if editor == "" {
			editor = strings.TrimSpace(os.Getenv("EDITOR"))
		}
		if editor == "" {
			return openerCommand(file)
		}
		template = strings.ReplaceAll(defaultEditorTemplate, "{editor}", editor)
	}

	name, args, err := buildEditorCommand(template, file, line, col, target)
	if err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("editor command not found: %s", name)
	}
	return exec.Command(name, args...), nil
}

func buildEditorCommand(template string, file string, line int, col int, target string) (string, []string, error) {
	parts, err := splitCommandLine(strings.TrimSpace(template))
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("editor command is empty")
	}

	repl := strings.NewReplacer(
		"{file}", file,
		"{line}", strconv.Itoa(line),
		"{col}", strconv.Itoa(col),
		"{target}", target,
	)
	for i := range parts {
		parts[i] = repl.Replace(parts[i])
	}
	return parts[0], parts[1:], nil
}

// splitCommandLine splits on unquoted whitespace. Single and double quotes
// group; an empty quoted pair yields an empty argument.
func splitCommandLine(input string) ([]string, error) {
	var parts []string
	var current strings.Builder

	tokenActive := false
	inSingle := false
	inDouble := false

	flush := func() {
		if !tokenActive {
			return
		}
		parts = append(parts, current.String())
		current.Reset()
		tokenActive = false
	}

	for _, r := range input {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			tokenActive = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			tokenActive = true
		case strings.ContainsRune(" \t\n\r", r) && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(r)
			tokenActive = true
		}
	}

	if inSingle || inDouble {
		return nil, fmt.Errorf("editor command has unclosed quote")
	}

	flush()
	return parts, nil
}

func openerCommand(path string) (*exec.Cmd, error) {
	var candidates [][]string
	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{{"open", path}}
	case "linux":
		candidates = [][]string{{"xdg-open", path}}
	case "windows":
		candidates = [][]string{{"explorer.exe", path}}
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return exec.Command(c[0], c[1:]...), nil
		}
	}
	return nil, fmt.Errorf("no editor configured: set $EDITOR or -editor-cmd")
}

func copyToClipboard(s string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipeStringToCommand(s, "pbcopy")
	case "linux":
		for _, c := range [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		} {
			if _, err := exec.LookPath(c[0]); err == nil {
				return pipeStringToCommand(s, c[0], c[1:]...)
			}
		}
		return fmt.Errorf("no clipboard utility found (install wl-copy, xclip, or xsel)")
	case "windows":
		return pipeStringToCommand(s, "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func pipeStringToCommand(input string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	in, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if _, err := io.WriteString(in, input); err != nil {
		_ = in.Close()
		_ = cmd.Wait()
		return err
	}
	if err := in.Close(); err != nil {
		_ = cmd.Wait()
		return err
	}
	return cmd.Wait()
}
