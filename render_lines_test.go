package main

import (
	"strings"
	"testing"

	"codeview/internal/pipeline"
	"codeview/internal/token"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func plainLines(t *testing.T, s string) []string {
	t.Helper()
	return strings.Split(ansi.Strip(s), "\n")
}

func TestRenderDocumentGutter(t *testing.T) {
	lines := pipeline.Render(pipeline.Input{Source: "a\nb\nc", Language: "text", Backend: "plain", LineStart: 8})
	got := plainLines(t, renderDocument(lines, renderOptions{Numbers: true}))
	require.Equal(t, []string{" 9 │ a", "10 │ b", "11 │ c"}, got)
}

func TestRenderDocumentWithoutNumbers(t *testing.T) {
	lines := pipeline.Render(pipeline.Input{Source: "x\ty", Language: "text", Backend: "plain"})
	got := plainLines(t, renderDocument(lines, renderOptions{}))
	require.Equal(t, []string{"x    y"}, got)
}

func TestRenderDocumentDiffGutters(t *testing.T) {
	src := " keep\n-old\n+new\n keep"
	lines := pipeline.Render(pipeline.Input{Source: src, Language: "text", Backend: "plain", Diff: true})
	got := plainLines(t, renderDocument(lines, renderOptions{Diff: true, Numbers: true}))
	require.Equal(t, []string{
		"1 1 │  keep",
		"2   │ -old",
		"  2 │ +new",
		"3 3 │  keep",
	}, got)
}

func TestDisplayNumbersShiftDiffValues(t *testing.T) {
	zero, four := 0, 4
	line := pipeline.RenderedLine{Diff: &token.DiffLineNumber{Remove: &zero, Add: &four}}
	got := displayNumbers(line)
	require.Equal(t, 1, *got[0])
	require.Equal(t, 5, *got[1])

	n := 7
	require.Equal(t, []*int{&n}, displayNumbers(pipeline.RenderedLine{LineNumber: &n}))
}

func TestKindOf(t *testing.T) {
	n := 1
	require.Equal(t, lineKept, kindOf(pipeline.RenderedLine{}))
	require.Equal(t, lineAdded, kindOf(pipeline.RenderedLine{Diff: &token.DiffLineNumber{Add: &n}}))
	require.Equal(t, lineRemoved, kindOf(pipeline.RenderedLine{Diff: &token.DiffLineNumber{Remove: &n}}))
	require.Equal(t, lineKept, kindOf(pipeline.RenderedLine{Diff: &token.DiffLineNumber{Add: &n, Remove: &n}}))
}

func TestRenderLineRespectsWidth(t *testing.T) {
	lines := pipeline.Render(pipeline.Input{Source: "abcdefghij", Language: "text", Backend: "plain"})
	got := ansi.Strip(renderLine(lines[0], 1, renderOptions{Numbers: true, Width: 8}))
	require.Equal(t, "1 │ abcd", got)
}

func TestRenderSegmentsRoundRuns(t *testing.T) {
	lines := pipeline.Render(pipeline.Input{
		Source:     "foo bar",
		Language:   "text",
		Backend:    "plain",
		Highlights: []token.Range{{Start: 4, End: 7}},
	})
	got := ansi.Strip(renderSegments(lines[0].Segments, lineKept, -1, renderOptions{RoundRuns: true}))
	require.Equal(t, "foo "+runCapLeft+"bar"+runCapRight, got)
}

func TestTruncateText(t *testing.T) {
	require.Equal(t, "", truncateText("abc", 0))
	require.Equal(t, "abc", truncateText("abc", 3))
	require.Equal(t, "ab...", truncateText("abcdefgh", 5))
	require.Equal(t, "a b", truncateText("a\nb", 10))
}
