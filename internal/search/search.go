// Package search finds text inside one document and reports hits as line
// indexes or as whole-document byte ranges ready for the highlight mapper.
package search

import (
	"regexp"
	"strings"

	"codeview/internal/token"
)

type line struct {
	start int
	text  string
}

// splitLines mirrors the tokenizer: \r\n, \r and \n all end a line.
func splitLines(source string) []line {
	out := make([]line, 0, strings.Count(source, "\n")+1)
	start := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			out = append(out, line{start: start, text: source[start:i]})
			start = i + 1
		case '\r':
			out = append(out, line{start: start, text: source[start:i]})
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(out, line{start: start, text: source[start:]})
}

func matcher(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// Lines returns the zero-based indexes of lines containing term, ignoring
// case. An empty term matches nothing.
func Lines(source string, term string) []int {
	if term == "" {
		return nil
	}
	re := matcher(term)
	var out []int
	for i, l := range splitLines(source) {
		if re.MatchString(l.text) {
			out = append(out, i)
		}
	}
	return out
}

// Ranges returns the byte range of every non-overlapping match of term,
// ignoring case. Matches never span lines.
func Ranges(source string, term string) []token.Range {
	if term == "" {
		return nil
	}
	re := matcher(term)
	var out []token.Range
	for _, l := range splitLines(source) {
		for _, m := range re.FindAllStringIndex(l.text, -1) {
			out = append(out, token.Range{Start: l.start + m[0], End: l.start + m[1]})
		}
	}
	return out
}
