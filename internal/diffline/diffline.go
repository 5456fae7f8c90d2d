// Package diffline numbers the lines of a unified diff for a two-gutter view.
//
// A line is added when its first or second token is exactly "+", removed when
// it is exactly "-". Nothing else about the diff is parsed.
package diffline

import "codeview/internal/token"

// markers reports whether the first two tokens include an exact "+" and an
// exact "-". The two checks are independent.
func markers(line token.Line) (plus bool, minus bool) {
	for i := 0; i < len(line.Tokens) && i < 2; i++ {
		switch line.Tokens[i].Content {
		case "+":
			plus = true
		case "-":
			minus = true
		}
	}
	return plus, minus
}

// Compute returns one pair per line. A "+" line has no Remove number and does
// not advance the remove counter; a "-" line is the mirror image. Values start
// at lineStart on both gutters.
func Compute(lines []token.Line, lineStart int) []token.DiffLineNumber {
	out := make([]token.DiffLineNumber, len(lines))
	addCount, removeCount := 0, 0
	for i, line := range lines {
		plus, minus := markers(line)
		if !minus {
			out[i].Add = intPtr(lineStart + addCount)
			addCount++
		}
		if !plus {
			out[i].Remove = intPtr(lineStart + removeCount)
			removeCount++
		}
	}
	return out
}

// Unified is the single-gutter numbering used outside diff mode.
func Unified(n int, lineStart int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + lineStart + 1
	}
	return out
}

// UnifiedDiff is the single-gutter numbering used for a diff rendered as one
// column: removed lines get no number, every other line counts up from
// lineStart+1.
func UnifiedDiff(lines []token.Line, lineStart int) []*int {
	out := make([]*int, len(lines))
	next := lineStart + 1
	for i, line := range lines {
		if _, minus := markers(line); minus {
			continue
		}
		out[i] = intPtr(next)
		next++
	}
	return out
}

func intPtr(v int) *int { return &v }
