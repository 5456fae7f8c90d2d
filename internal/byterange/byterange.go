// Package byterange assigns whole-document UTF-8 byte offsets to tokens.
package byterange

import "codeview/internal/token"

// Assign returns a copy of lines with every token's Range set. The cursor runs
// across line boundaries: each line is charged its terminator width, chosen by
// ending. The empty-line sentinel gets a zero-width range and costs nothing.
func Assign(lines []token.Line, ending token.LineEnding) []token.Line {
	out := make([]token.Line, len(lines))
	width := ending.Width()

	b := 0
	for i, line := range lines {
		toks := make([]token.Token, len(line.Tokens))
		for j, tok := range line.Tokens {
			if tok.Empty {
				tok.Range = token.Range{Start: b, End: b}
			} else {
				n := len(tok.Content)
				tok.Range = token.Range{Start: b, End: b + n}
				b += n
			}
			toks[j] = tok
		}
		out[i] = token.Line{Tokens: toks, Terminator: line.Terminator}

		if width < 0 {
			b += line.Terminator
		} else {
			b += width
		}
	}
	return out
}

// Detect reports the first line terminator in source, LF when there is none.
func Detect(source string) token.LineEnding {
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			return token.LF
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				return token.CRLF
			}
			return token.CR
		}
	}
	return token.LF
}

// Total is the byte length the ranges were computed over, including every
// charged terminator.
func Total(lines []token.Line, ending token.LineEnding) int {
	n := 0
	width := ending.Width()
	for _, line := range lines {
		for _, tok := range line.Tokens {
			n += len(tok.Content)
		}
		if width < 0 {
			n += line.Terminator
		} else {
			n += width
		}
	}
	return n
}
