package main

import (
	"fmt"
	"slices"
	"strings"

	"codeview/internal/logger"
	"codeview/internal/pipeline"
	"codeview/internal/search"
	"codeview/internal/token"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editorFinishedMsg struct{ err error }

// pagerModel shows one document at a time in a scrolling viewport with a
// movable cursor line and incremental search.
type pagerModel struct {
	cfg    config
	docs   []document
	engine *pipeline.Engine

	active      int
	lines       []pipeline.RenderedLine
	rendered    []string
	gutterWidth int
	cursor      int

	view  viewport.Model
	input textinput.Model

	searching bool
	query     string
	hits      []int

	width  int
	height int
	ready  bool
	status string
}

func newPagerModel(cfg config, docs []document, engine *pipeline.Engine) pagerModel {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search"
	in.CharLimit = 256

	m := pagerModel{
		cfg:    cfg,
		docs:   docs,
		engine: engine,
		input:  in,
		query:  cfg.Search,
	}
	m.loadDocument(0)
	return m
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(1, m.height-2)
		if !m.ready {
			m.view = viewport.New(m.width, h)
			m.ready = true
		} else {
			m.view.Width = m.width
			m.view.Height = h
		}
		m.input.Width = max(8, m.width-4)
		m.rendered = nil
		m.refresh()
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.status = "editor failed: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m pagerModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		m.searching = false
		m.input.Blur()
		m.applySearch(strings.TrimSpace(m.input.Value()))
		m.jumpToHit(1, true)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m pagerModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.input.SetValue(m.query)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "n":
		m.jumpToHit(1, false)
	case "N":
		m.jumpToHit(-1, false)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup", "ctrl+u":
		m.moveCursor(-m.view.Height)
	case "pgdown", "ctrl+d", " ":
		m.moveCursor(m.view.Height)
	case "g", "home":
		m.moveCursor(-len(m.lines))
	case "G", "end":
		m.moveCursor(len(m.lines))
	case "tab":
		if len(m.docs) > 1 {
			m.loadDocument((m.active + 1) % len(m.docs))
			m.refresh()
		}
	case "shift+tab":
		if len(m.docs) > 1 {
			m.loadDocument((m.active + len(m.docs) - 1) % len(m.docs))
			m.refresh()
		}
	case "y":
		text := m.currentText()
		if err := copyToClipboard(text); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("copied line %d", m.cursor+1)
		}
	case "e", "enter":
		return m, m.openEditor()
	}
	return m, nil
}

// loadDocument switches to docs[i], re-applying the current query.
func (m *pagerModel) loadDocument(i int) {
	if len(m.docs) == 0 {
		return
	}
	m.active = i
	m.cursor = 0
	m.applySearch(m.query)
	if m.ready {
		m.view.GotoTop()
	}
}

// applySearch renders the active document with query matches added to its
// base highlights.
func (m *pagerModel) applySearch(query string) {
	m.query = query
	doc := m.docs[m.active]
	src := doc.Input.Source

	in := doc.Input
	in.Highlights = append(append([]token.Range(nil), doc.Marks...), searchRanges(src, query, m.cfg.Fuzzy)...)

	if query == "" {
		m.hits = nil
	} else if m.cfg.Fuzzy {
		matches := search.Fuzzy(src, query)
		m.hits = make([]int, 0, len(matches))
		for _, fm := range matches {
			m.hits = append(m.hits, fm.Line)
		}
		// n and N step in document order, not score order.
		slices.Sort(m.hits)
	} else {
		m.hits = search.Lines(src, query)
	}

	m.lines = m.engine.Render(in)
	m.gutterWidth = numberWidth(m.lines)
	m.rendered = nil
	m.cursor = clamp(m.cursor, 0, max(0, len(m.lines)-1))
	if query != "" {
		m.status = fmt.Sprintf("%d matching lines", len(m.hits))
	}
	logger.Debugf("pager: %s query %q: %d hits", doc.Name, query, len(m.hits))
	m.refresh()
}

// jumpToHit moves to the next (dir > 0) or previous hit after the cursor.
// With inclusive, a hit on the cursor line itself counts.
func (m *pagerModel) jumpToHit(dir int, inclusive bool) {
	if len(m.hits) == 0 {
		if m.query != "" {
			m.status = "no matches for " + m.query
		}
		return
	}
	target := -1
	if dir > 0 {
		for _, h := range m.hits {
			if h > m.cursor || (inclusive && h == m.cursor) {
				target = h
				break
			}
		}
		if target < 0 {
			target = m.hits[0]
		}
	} else {
		for i := len(m.hits) - 1; i >= 0; i-- {
			if m.hits[i] < m.cursor {
				target = m.hits[i]
				break
			}
		}
		if target < 0 {
			target = m.hits[len(m.hits)-1]
		}
	}
	m.moveCursor(target - m.cursor)
}

func (m *pagerModel) moveCursor(delta int) {
	if len(m.lines) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.lines)-1)
	m.refresh()
}

// refresh repaints the viewport and keeps the cursor line visible.
func (m *pagerModel) refresh() {
	if !m.ready {
		return
	}
	if m.rendered == nil {
		m.rendered = make([]string, len(m.lines))
		opts := m.lineOptions(false)
		for i, line := range m.lines {
			m.rendered[i] = renderLine(line, m.gutterWidth, opts)
		}
	}

	out := make([]string, len(m.rendered))
	copy(out, m.rendered)
	if m.cursor < len(m.lines) {
		out[m.cursor] = renderLine(m.lines[m.cursor], m.gutterWidth, m.lineOptions(true))
	}
	m.view.SetContent(strings.Join(out, "\n"))

	switch {
	case m.cursor < m.view.YOffset:
		m.view.SetYOffset(m.cursor)
	case m.cursor >= m.view.YOffset+m.view.Height:
		m.view.SetYOffset(m.cursor - m.view.Height + 1)
	}
}

func (m pagerModel) lineOptions(current bool) renderOptions {
	return renderOptions{
		Diff:      m.cfg.Diff,
		Numbers:   !m.cfg.NoNumbers,
		RoundRuns: m.cfg.RoundRuns,
		Width:     m.width,
		Current:   current,
	}
}

func (m pagerModel) currentText() string {
	if m.cursor >= len(m.lines) {
		return ""
	}
	return token.SegmentsText(m.lines[m.cursor].Segments)
}

// sourceLine is the one-based line number in the file on disk. Displayed
// numbers may be offset by -line-start or count diff sides, so only the
// physical row maps back to the file.
func (m pagerModel) sourceLine() int {
	return m.cursor + 1
}

func (m *pagerModel) openEditor() tea.Cmd {
	doc := m.docs[m.active]
	if doc.Name == "<stdin>" {
		m.status = "cannot open stdin in an editor"
		return nil
	}
	cmd, err := editorCommand(doc.Name, m.sourceLine(), 1, m.cfg.EditorCmd)
	if err != nil {
		m.status = "open failed: " + err.Error()
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return editorFinishedMsg{err: err} })
}

func (m pagerModel) View() string {
	if !m.ready {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.view.View(), m.renderStatus(), m.renderFooter())
}

func (m pagerModel) renderStatus() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(appTheme.Text)).
		Background(lipgloss.Color(appTheme.StatusBG))

	if m.searching {
		return style.Render(padRightANSI(m.input.View(), m.width))
	}

	doc := m.docs[m.active]
	left := doc.Name
	if len(m.docs) > 1 {
		left = fmt.Sprintf("%s (%d/%d)", doc.Name, m.active+1, len(m.docs))
	}
	right := fmt.Sprintf("%d/%d  %3.f%%", m.cursor+1, len(m.lines), m.view.ScrollPercent()*100)
	if m.status != "" {
		left += "  " + m.status
	}
	left = truncateText(left, max(0, m.width-len(right)-1))
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return style.Render(left + strings.Repeat(" ", gap) + right)
}

func (m pagerModel) renderFooter() string {
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Muted))
	text := "j/k move  g/G ends  / search  n/N next/prev  y copy  e edit  q quit"
	if len(m.docs) > 1 {
		text += "  tab next file"
	}
	return footerStyle.Render(truncateText(text, m.width))
}
