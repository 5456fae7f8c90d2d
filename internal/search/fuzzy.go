package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeview/internal/token"
)

type FuzzyMatch struct {
	Line   int
	Score  int
	Ranges []token.Range
}

// Fuzzy ranks lines holding query as a subsequence, best first. Ties keep
// document order. Upper-case letters in query make matching case-sensitive
// for those letters' bonus only, never for whether a line matches.
func Fuzzy(source string, query string) []FuzzyMatch {
	queryRaw := trimRunes(query)
	if len(queryRaw) == 0 {
		return nil
	}
	queryLower := lowerRunes(queryRaw)
	caseSensitive := hasUpper(queryRaw)

	var out []FuzzyMatch
	for i, l := range splitLines(source) {
		score, ok := fuzzyScore(l.text, queryRaw, queryLower, caseSensitive)
		if !ok {
			continue
		}
		out = append(out, FuzzyMatch{
			Line:   i,
			Score:  score,
			Ranges: fuzzyRanges(l.text, l.start, queryLower),
		})
	}
	slices.SortStableFunc(out, func(a, b FuzzyMatch) int { return cmp.Compare(b.Score, a.Score) })
	return out
}

func fuzzyScore(text string, queryRaw []rune, queryLower []rune, caseSensitive bool) (int, bool) {
	if len(queryLower) == 0 {
		return 0, true
	}

	qi := 0
	last := -2
	score := 0
	runeIdx := 0
	var prev rune
	hasPrev := false
	caseMatches := 0

	for _, raw := range text {
		r := lowerRuneFast(raw)

		if qi < len(queryLower) && r == queryLower[qi] {
			bonus := 10
			if runeIdx == 0 || (hasPrev && isBoundaryRune(prev)) {
				bonus += 8
			}
			if last+1 == runeIdx {
				bonus += 6
			}
			if caseSensitive && raw == queryRaw[qi] {
				bonus += 4
				caseMatches++
			}

			score += bonus
			last = runeIdx
			qi++
		}

		prev = r
		hasPrev = true
		runeIdx++
	}

	if qi != len(queryLower) {
		return 0, false
	}

	if runeIdx > len(queryLower) {
		score -= runeIdx - len(queryLower)
	}
	if runeIdx < 40 {
		score += 40 - runeIdx
	}
	return score + caseMatches*3, true
}

// fuzzyRanges returns the byte range of every matched rune, offset by base,
// with adjacent runes merged.
func fuzzyRanges(text string, base int, queryLower []rune) []token.Range {
	out := make([]token.Range, 0, len(queryLower))
	qi := 0
	for i, raw := range text {
		if qi >= len(queryLower) {
			break
		}
		if lowerRuneFast(raw) != queryLower[qi] {
			continue
		}
		qi++
		_, w := utf8.DecodeRuneInString(text[i:])
		start, end := base+i, base+i+w
		if n := len(out); n > 0 && out[n-1].End == start {
			out[n-1].End = end
			continue
		}
		out = append(out, token.Range{Start: start, End: end})
	}
	if qi != len(queryLower) {
		return nil
	}
	return out
}

func isBoundaryRune(r rune) bool {
	switch r {
	case '/', '\\', '_', '-', '.', ':', ' ', '\t', '(', ')', '[', ']', '{', '}', ',':
		return true
	default:
		return false
	}
}

func trimRunes(s string) []rune {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return []rune(s)
}

func lowerRunes(r []rune) []rune {
	out := make([]rune, len(r))
	for i := range r {
		out[i] = lowerRuneFast(r[i])
	}
	return out
}

func hasUpper(r []rune) bool {
	for _, c := range r {
		if unicode.IsUpper(c) {
			return true
		}
	}
	return false
}

func lowerRuneFast(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	if r <= unicode.MaxASCII {
		return r
	}
	return unicode.ToLower(r)
}
