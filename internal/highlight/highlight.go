// Package highlight splits tokens at caller-supplied byte ranges.
//
// Ranges are whole-document UTF-8 byte offsets. They may overlap, arrive
// unsorted, be negative or point past the document; none of that is an error.
// Offsets computed in another encoding (UTF-16 code units, say) cannot be
// detected and will simply land in the wrong place.
package highlight

import (
	"unicode/utf8"

	"codeview/internal/token"
)

// Map segments every line of lines, which must carry byte ranges. The result
// has one slice per line; concatenating a slice's contents gives the line text.
func Map(lines []token.Line, ranges []token.Range) [][]token.Segment {
	set := newIntervalSet(ranges)
	out := make([][]token.Segment, len(lines))
	for i, line := range lines {
		out[i] = mapLine(line, set)
	}
	return out
}

// MapLine segments a single line against ranges.
func MapLine(line token.Line, ranges []token.Range) []token.Segment {
	return mapLine(line, newIntervalSet(ranges))
}

func mapLine(line token.Line, set intervalSet) []token.Segment {
	segs := make([]token.Segment, 0, len(line.Tokens))
	for _, tok := range line.Tokens {
		if tok.Empty || set.empty() {
			segs = append(segs, token.Segment{
				Content: tok.Content,
				Tags:    tok.Tags,
				Range:   tok.Range,
			})
			continue
		}
		segs = appendTokenSegments(segs, tok, set)
	}
	markRuns(segs)
	return segs
}

// appendTokenSegments walks tok rune by rune and cuts wherever membership of
// the rune's first byte flips.
func appendTokenSegments(segs []token.Segment, tok token.Token, set intervalSet) []token.Segment {
	content := tok.Content
	base := tok.Range.Start

	// Skip the walk when the token lies wholly inside or outside the set.
	if in, uniform := set.uniform(base, base+len(content)); uniform {
		return append(segs, token.Segment{
			Highlighted: in,
			Content:     content,
			Tags:        tok.Tags,
			Range:       tok.Range,
		})
	}

	runStart := 0
	runIn := set.contains(base)
	for i := 0; i < len(content); {
		_, w := utf8.DecodeRuneInString(content[i:])
		in := set.contains(base + i)
		if in != runIn {
			segs = append(segs, segment(tok, runStart, i, runIn))
			runStart, runIn = i, in
		}
		i += w
	}
	return append(segs, segment(tok, runStart, len(content), runIn))
}

func segment(tok token.Token, from int, to int, highlighted bool) token.Segment {
	return token.Segment{
		Highlighted: highlighted,
		Content:     tok.Content[from:to],
		Tags:        tok.Tags,
		Range:       token.Range{Start: tok.Range.Start + from, End: tok.Range.Start + to},
	}
}

func markRuns(segs []token.Segment) {
	for i := range segs {
		if !segs[i].Highlighted {
			continue
		}
		segs[i].StartOfRun = i == 0 || !segs[i-1].Highlighted
		segs[i].EndOfRun = i == len(segs)-1 || !segs[i+1].Highlighted
	}
}
