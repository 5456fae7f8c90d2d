package token

import (
	"fmt"
	"strings"
)

type LineEnding string

const (
	LF   LineEnding = "LF"
	CRLF LineEnding = "CRLF"
	CR   LineEnding = "CR"
	// Auto charges each line the width of the terminator it actually had.
	Auto LineEnding = "auto"
)

func ParseLineEnding(v string) (LineEnding, error) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", "auto":
		return Auto, nil
	case "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	case "cr":
		return CR, nil
	default:
		return "", fmt.Errorf("invalid line ending %q (use auto, lf, crlf or cr)", v)
	}
}

// Width is the byte cost of one terminator. Auto has no fixed width and
// reports -1.
func (e LineEnding) Width() int {
	switch e {
	case CRLF:
		return 2
	case Auto:
		return -1
	default:
		return 1
	}
}
