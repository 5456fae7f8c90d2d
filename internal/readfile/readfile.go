// Package readfile loads source text byte for byte. Line endings are left
// alone: highlight offsets are computed against the raw bytes.
package readfile

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Source reads path, or stdin when path is empty or "-".
func Source(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return "", fmt.Errorf("read stdin: no input")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// FirstLine returns text up to the first line terminator.
func FirstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}
