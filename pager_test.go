package main

import (
	"testing"

	"codeview/internal/pipeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func newTestPager(t *testing.T, cfg config, sources ...string) pagerModel {
	t.Helper()
	docs := make([]document, len(sources))
	for i, src := range sources {
		docs[i] = document{
			Name: "doc.txt",
			Input: pipeline.Input{
				Source:    src,
				Language:  "text",
				Backend:   "plain",
				LineStart: cfg.LineStart,
				Diff:      cfg.Diff,
			},
		}
	}
	m := newPagerModel(cfg, docs, pipeline.NewEngine(pipeline.EngineConfig{CacheSize: 4, Workers: 1}))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 5})
	return next.(pagerModel)
}

func press(t *testing.T, m pagerModel, keys ...string) pagerModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(pagerModel)
	}
	return m
}

func TestPagerCursorMovement(t *testing.T) {
	m := newTestPager(t, defaultConfig(), "a\nb\nc\nd\ne\nf\ng")
	require.Equal(t, 3, m.view.Height)

	m = press(t, m, "j", "j")
	require.Equal(t, 2, m.cursor)

	m = press(t, m, "G")
	require.Equal(t, 6, m.cursor)
	require.Equal(t, 4, m.view.YOffset)

	m = press(t, m, "k", "g")
	require.Equal(t, 0, m.cursor)
	require.Equal(t, 0, m.view.YOffset)
}

func TestPagerSearchAndStep(t *testing.T) {
	m := newTestPager(t, defaultConfig(), "alpha\nbeta\nalphabet\ngamma")

	m = press(t, m, "/")
	require.True(t, m.searching)
	m = press(t, m, "a", "l", "p", "h", "enter")
	require.False(t, m.searching)
	require.Equal(t, "alph", m.query)
	require.Equal(t, []int{0, 2}, m.hits)
	require.Equal(t, 0, m.cursor)

	segs := m.lines[0].Segments
	require.True(t, segs[0].Highlighted)
	require.Equal(t, "alph", segs[0].Content)

	m = press(t, m, "n")
	require.Equal(t, 2, m.cursor)
	m = press(t, m, "n")
	require.Equal(t, 0, m.cursor)
	m = press(t, m, "N")
	require.Equal(t, 2, m.cursor)
}

func TestPagerSearchCancel(t *testing.T) {
	m := newTestPager(t, defaultConfig(), "one\ntwo")
	m = press(t, m, "/", "t", "esc")
	require.False(t, m.searching)
	require.Empty(t, m.query)
	require.Nil(t, m.hits)
}

func TestPagerFuzzyHitsInDocumentOrder(t *testing.T) {
	cfg := defaultConfig()
	cfg.Fuzzy = true
	m := newTestPager(t, cfg, "xx f_o_o\nfoo\nnothing")
	m = press(t, m, "/", "f", "o", "o", "enter")
	require.Equal(t, []int{0, 1}, m.hits)
}

func TestPagerSwitchesDocuments(t *testing.T) {
	m := newTestPager(t, defaultConfig(), "first", "second\nline")
	require.Equal(t, "first", m.currentText())

	m = press(t, m, "tab")
	require.Equal(t, 1, m.active)
	require.Len(t, m.lines, 2)
	require.Equal(t, "second", m.currentText())

	m = press(t, m, "tab")
	require.Equal(t, 0, m.active)
}

func TestPagerStdinCannotOpenEditor(t *testing.T) {
	docs := []document{{Name: "<stdin>", Input: pipeline.Input{Source: "x", Language: "text"}}}
	m := newPagerModel(defaultConfig(), docs, pipeline.NewEngine(pipeline.EngineConfig{}))
	require.Nil(t, m.openEditor())
	require.Contains(t, m.status, "stdin")
}

func TestPagerViewBeforeResize(t *testing.T) {
	docs := []document{{Name: "a", Input: pipeline.Input{Source: "x", Language: "text"}}}
	m := newPagerModel(defaultConfig(), docs, pipeline.NewEngine(pipeline.EngineConfig{}))
	require.Empty(t, m.View())
}

func TestPagerEditorLineIgnoresLineStart(t *testing.T) {
	cfg := defaultConfig()
	cfg.LineStart = 10
	m := newTestPager(t, cfg, "a\nb\nc")
	require.Equal(t, 11, *m.lines[0].LineNumber)

	m = press(t, m, "j")
	require.Equal(t, 2, m.sourceLine())
}

func TestPagerEditorLineInDiff(t *testing.T) {
	cfg := defaultConfig()
	cfg.Diff = true
	m := newTestPager(t, cfg, "- old\n+ new\nkept")

	m = press(t, m, "j", "j")
	require.Equal(t, "kept", m.currentText())
	require.Equal(t, 3, m.sourceLine())

	m = press(t, m, "k", "k")
	require.Equal(t, 1, m.sourceLine())
}
