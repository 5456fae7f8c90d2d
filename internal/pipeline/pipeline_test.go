package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"codeview/internal/grammar"
	"codeview/internal/token"

	"github.com/stretchr/testify/require"
)

func TestRenderEndToEnd(t *testing.T) {
	out := Render(Input{
		Source:     "foo\nbar\n",
		Language:   "plaintext",
		Highlights: []token.Range{{Start: 0, End: 3}},
	})
	require.Len(t, out, 3)

	require.Equal(t, []token.Segment{{
		Highlighted: true,
		Content:     "foo",
		StartOfRun:  true,
		EndOfRun:    true,
		Tags:        []string{token.PlainTag},
		Range:       token.Range{Start: 0, End: 3},
	}}, out[0].Segments)
	require.Len(t, out[1].Segments, 1)
	require.False(t, out[1].Segments[0].Highlighted)
	require.Equal(t, "bar", out[1].Segments[0].Content)

	require.Equal(t, 1, *out[0].LineNumber)
	require.Equal(t, 3, *out[2].LineNumber)
	require.Nil(t, out[0].Diff)
}

func TestRenderDiff(t *testing.T) {
	out := Render(Input{
		Source:    "+ added line\n- removed line\nunchanged",
		Language:  "plain",
		Diff:      true,
		LineStart: 0,
	})
	require.Len(t, out, 3)

	require.Equal(t, 0, *out[0].Diff.Add)
	require.Nil(t, out[0].Diff.Remove)
	require.Nil(t, out[1].Diff.Add)
	require.Equal(t, 0, *out[1].Diff.Remove)
	require.Equal(t, 1, *out[2].Diff.Add)
	require.Equal(t, 1, *out[2].Diff.Remove)

	require.Nil(t, out[1].LineNumber)
	require.Equal(t, 2, *out[2].LineNumber)
	require.Equal(t, "+ added line\n- removed line\nunchanged", Text(out))
}

func TestRenderCRLFOffsets(t *testing.T) {
	src := "ab\r\ncd"
	out := Render(Input{Source: src, Language: "plain", Highlights: []token.Range{{Start: 4, End: 5}}})
	require.Equal(t, "c", out[1].Segments[0].Content)
	require.True(t, out[1].Segments[0].Highlighted)

	// Forcing LF charges one byte per terminator, shifting the window.
	out = Render(Input{Source: src, Language: "plain", LineEnding: token.LF, Highlights: []token.Range{{Start: 4, End: 5}}})
	require.Equal(t, "c", out[1].Segments[0].Content)
	require.False(t, out[1].Segments[0].Highlighted)
	require.Equal(t, "d", out[1].Segments[1].Content)
	require.True(t, out[1].Segments[1].Highlighted)
}

func TestRenderHover(t *testing.T) {
	out := Render(Input{
		Source:   "x\ncall(y)",
		Language: "plain",
		Hover:    map[int][]token.Range{1: {{Start: 2, End: 6}}},
	})
	require.Nil(t, out[0].Segments[0].Hover)
	require.NotNil(t, out[1].Segments[0].Hover)
	require.Equal(t, token.Range{Start: 2, End: 6}, *out[1].Segments[0].Hover)
}

func TestEngineCachesTokens(t *testing.T) {
	e := NewEngine(EngineConfig{CacheSize: 2})
	in := Input{Source: "package main\n", Language: "go"}

	first := e.Tokens(in)
	second := e.Tokens(in)
	require.Same(t, &first[0], &second[0])

	stats := e.Stats()
	require.Equal(t, 1, stats.Entries)
	require.Equal(t, uint64(1), stats.Hits)

	// Backend and diff mode are part of the key.
	_ = e.Tokens(Input{Source: in.Source, Language: "go", Backend: grammar.BackendChroma})
	_ = e.Tokens(Input{Source: in.Source, Language: "go", Diff: true})
	require.Equal(t, 2, e.Stats().Entries)

	e.Invalidate()
	require.Equal(t, 0, e.Stats().Entries)
}

func TestEngineRenderMatchesRender(t *testing.T) {
	e := NewEngine(EngineConfig{})
	in := Input{
		Source:     "fn main() {\n    let s = \"😀\";\n}\n",
		Language:   "rust",
		Highlights: []token.Range{{Start: 20, End: 26}},
	}
	require.Equal(t, Render(in), e.Render(in))
	require.Equal(t, Render(in), e.Render(in))
}

func TestRenderAll(t *testing.T) {
	e := NewEngine(EngineConfig{Workers: 3})
	inputs := make([]Input, 12)
	for i := range inputs {
		inputs[i] = Input{
			Source:   strings.Repeat(fmt.Sprintf("line %d\n", i), i+1),
			Language: []string{"go", "python", "plain"}[i%3],
		}
	}

	out, err := e.RenderAll(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, out, len(inputs))
	for i, lines := range out {
		require.Equal(t, inputs[i].Source, Text(lines))
	}
}

func TestRenderAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(EngineConfig{}).RenderAll(ctx, []Input{{Source: "x"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDocCacheEvictsOldest(t *testing.T) {
	c := newDocCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a", nil)
	c.Set("c", 3)

	_, ok := c.Get("b", nil)
	require.False(t, ok)
	v, ok := c.Get("a", nil)
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, 2, c.Len())

	c.Set("a", 10)
	require.Equal(t, 2, c.Len())
	v, _ = c.Get("a", nil)
	require.Equal(t, 10, v)
}

func TestDocCacheExpires(t *testing.T) {
	c := newDocCache[int](4, 20*time.Millisecond)
	c.Set("a", 1)
	_, ok := c.Get("a", nil)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok := c.Get("a", nil)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestEngineCollisionCountsAsMiss(t *testing.T) {
	e := NewEngine(EngineConfig{CacheSize: 4})
	in := Input{Source: "package main\n", Language: "go"}
	e.cache.Set(keyFor(in).String(), cachedLines{source: "package other\n"})

	lines := e.Tokens(in)
	require.NotEmpty(t, lines)
	require.Equal(t, "package main", lines[0].Text())

	stats := e.Stats()
	require.Equal(t, uint64(0), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)

	_ = e.Tokens(in)
	stats = e.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, 1, stats.Entries)
}
