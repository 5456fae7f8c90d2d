package highlight

import "codeview/internal/token"

// Hoverable returns the first candidate lying wholly inside tokenRange.
// Zero-width candidates and the zero-width empty-line token never match.
func Hoverable(tokenRange token.Range, candidates []token.Range) (token.Range, bool) {
	if tokenRange.Len() == 0 {
		return token.Range{}, false
	}
	for _, c := range candidates {
		if c.Len() == 0 {
			continue
		}
		if tokenRange.Contains(c) {
			return c, true
		}
	}
	return token.Range{}, false
}

// AttachHover returns a copy of segs where every segment cut from a hoverable
// token points at that token's navigable range. tokens is the line the
// segments were mapped from.
func AttachHover(segs []token.Segment, tokens []token.Token, candidates []token.Range) []token.Segment {
	out := make([]token.Segment, len(segs))
	copy(out, segs)
	if len(candidates) == 0 {
		return out
	}

	ti := 0
	for i := range out {
		for ti < len(tokens) && tokens[ti].Range.End <= out[i].Range.Start && tokens[ti].Range.Len() > 0 {
			ti++
		}
		if ti == len(tokens) {
			break
		}
		if !tokens[ti].Range.Contains(out[i].Range) {
			continue
		}
		if r, ok := Hoverable(tokens[ti].Range, candidates); ok {
			out[i].Hover = &r
		}
	}
	return out
}
