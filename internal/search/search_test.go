package search

import (
	"testing"

	"codeview/internal/token"

	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	src := "Alpha\nbeta\r\nALPHABET\rgamma"
	require.Equal(t, []int{0, 2}, Lines(src, "alpha"))
	require.Equal(t, []int{3}, Lines(src, "GAM"))
	require.Empty(t, Lines(src, ""))
	require.Empty(t, Lines(src, "delta"))
}

func TestRangesAreDocumentOffsets(t *testing.T) {
	src := "foo bar\r\nFOO foo"
	got := Ranges(src, "foo")
	require.Equal(t, []token.Range{
		{Start: 0, End: 3},
		{Start: 9, End: 12},
		{Start: 13, End: 16},
	}, got)
	for _, r := range got {
		if src[r.Start:r.End] != "foo" && src[r.Start:r.End] != "FOO" {
			t.Fatalf("range %+v covers %q", r, src[r.Start:r.End])
		}
	}
}

func TestRangesQuoteMeta(t *testing.T) {
	require.Equal(t, []token.Range{{Start: 2, End: 5}}, Ranges("a a.b c", "a.b"))
	require.Empty(t, Ranges("axb", "a.b"))
}

func TestRangesMultiByte(t *testing.T) {
	src := "😀 déjà vu"
	got := Ranges(src, "DÉJÀ")
	require.Len(t, got, 1)
	require.Equal(t, "déjà", src[got[0].Start:got[0].End])
}

func TestFuzzyRanksAndRanges(t *testing.T) {
	src := "xx render_lines yy\nrl\nnothing here"
	got := Fuzzy(src, "rl")
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].Line)
	require.Equal(t, []token.Range{{Start: 19, End: 21}}, got[0].Ranges)

	second := got[1]
	require.Equal(t, 0, second.Line)
	require.Len(t, second.Ranges, 2)
	require.Equal(t, "r", src[second.Ranges[0].Start:second.Ranges[0].End])
	require.Equal(t, "l", src[second.Ranges[1].Start:second.Ranges[1].End])
}

func TestFuzzyMergesAdjacentRunes(t *testing.T) {
	got := Fuzzy("main", "mai")
	require.Len(t, got, 1)
	require.Equal(t, []token.Range{{Start: 0, End: 3}}, got[0].Ranges)
	require.Empty(t, Fuzzy("main", "  "))
}

func TestFuzzyScorePrefersBoundaries(t *testing.T) {
	q := []rune("fb")
	boundary, ok := fuzzyScore("foo_bar", q, q, false)
	require.True(t, ok)
	inner, ok := fuzzyScore("fxxbxxx", q, q, false)
	require.True(t, ok)
	require.Greater(t, boundary, inner)

	_, ok = fuzzyScore("bf", q, q, false)
	require.False(t, ok)
}
