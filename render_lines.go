package main

import (
	"strconv"
	"strings"

	"codeview/internal/grammar"
	"codeview/internal/pipeline"
	"codeview/internal/token"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	runCapLeft  = "▐"
	runCapRight = "▌"
	tabWidth    = 4
)

type renderOptions struct {
	Diff      bool
	Numbers   bool
	RoundRuns bool
	// Width caps the visible width of a line; 0 means no limit.
	Width int
	// Current marks the pager's focused line.
	Current bool
}

type lineKind int

const (
	lineKept lineKind = iota
	lineAdded
	lineRemoved
)

func kindOf(line pipeline.RenderedLine) lineKind {
	if line.Diff == nil {
		return lineKept
	}
	switch {
	case line.Diff.Add != nil && line.Diff.Remove == nil:
		return lineAdded
	case line.Diff.Add == nil && line.Diff.Remove != nil:
		return lineRemoved
	default:
		return lineKept
	}
}

// numberWidth is the widest displayed line number across lines.
func numberWidth(lines []pipeline.RenderedLine) int {
	w := 1
	for _, line := range lines {
		for _, v := range displayNumbers(line) {
			if v != nil {
				w = max(w, len(strconv.Itoa(*v)))
			}
		}
	}
	return w
}

// displayNumbers returns the gutter values as shown: the single number as is,
// diff numbers shifted to start at 1.
func displayNumbers(line pipeline.RenderedLine) []*int {
	if line.Diff == nil {
		return []*int{line.LineNumber}
	}
	shift := func(v *int) *int {
		if v == nil {
			return nil
		}
		n := *v + 1
		return &n
	}
	return []*int{shift(line.Diff.Remove), shift(line.Diff.Add)}
}

func renderGutter(line pipeline.RenderedLine, width int, opts renderOptions) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Gutter))
	if opts.Current {
		style = style.Foreground(lipgloss.Color(appTheme.GutterActive)).Bold(true)
	}

	cols := displayNumbers(line)
	parts := make([]string, 0, len(cols))
	for _, v := range cols {
		cell := ""
		if v != nil {
			cell = strconv.Itoa(*v)
		}
		parts = append(parts, padLeft(cell, width))
	}
	return style.Render(strings.Join(parts, " ") + " │ ")
}

func renderLine(line pipeline.RenderedLine, gutterWidth int, opts renderOptions) string {
	var b strings.Builder
	used := 0
	if opts.Numbers {
		g := renderGutter(line, gutterWidth, opts)
		used = lipgloss.Width(g)
		b.WriteString(g)
	}

	budget := -1
	if opts.Width > 0 {
		budget = max(opts.Width-used, 0)
	}
	b.WriteString(renderSegments(line.Segments, kindOf(line), budget, opts))
	return b.String()
}

// renderSegments paints segments left to right until budget columns are used.
// A negative budget is unlimited.
func renderSegments(segs []token.Segment, kind lineKind, budget int, opts renderOptions) string {
	var b strings.Builder
	capStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.MatchBG))

	write := func(style lipgloss.Style, text string) bool {
		if text == "" {
			return true
		}
		if budget >= 0 {
			w := runewidth.StringWidth(text)
			if w > budget {
				text = runewidth.Truncate(text, budget, "")
				b.WriteString(style.Render(text))
				budget = 0
				return false
			}
			budget -= w
		}
		b.WriteString(style.Render(text))
		return true
	}

	for _, seg := range segs {
		style := segmentStyle(seg, kind, opts)
		if opts.RoundRuns && seg.StartOfRun && !write(capStyle, runCapLeft) {
			break
		}
		if !write(style, expandTabs(seg.Content)) {
			break
		}
		if opts.RoundRuns && seg.EndOfRun && !write(capStyle, runCapRight) {
			break
		}
	}
	return b.String()
}

func segmentStyle(seg token.Segment, kind lineKind, opts renderOptions) lipgloss.Style {
	style := tokenStyle(grammar.Classify(seg.Tags))

	switch kind {
	case lineAdded:
		style = style.Background(lipgloss.Color(appTheme.AddedBG))
	case lineRemoved:
		style = style.Background(lipgloss.Color(appTheme.RemovedBG))
	default:
		if opts.Current {
			style = style.Background(lipgloss.Color(appTheme.CurrentBG))
		}
	}

	if seg.Highlighted {
		style = style.Background(lipgloss.Color(appTheme.MatchBG)).Foreground(lipgloss.Color(appTheme.MatchFG))
	}
	if seg.Hover != nil {
		style = style.Underline(true)
	}
	for _, tag := range seg.Tags {
		if tag == token.DiffMarkerTag {
			fg := appTheme.AddedFG
			if seg.Content == "-" {
				fg = appTheme.RemovedFG
			}
			style = style.Foreground(lipgloss.Color(fg)).Bold(true)
		}
	}
	return style
}

func tokenStyle(cat grammar.Category) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Text))

	switch cat {
	case grammar.CategoryKeyword:
		return style.Foreground(lipgloss.Color(appTheme.Keyword))
	case grammar.CategoryType:
		return style.Foreground(lipgloss.Color(appTheme.Type))
	case grammar.CategoryFunction:
		return style.Foreground(lipgloss.Color(appTheme.Function))
	case grammar.CategoryString:
		return style.Foreground(lipgloss.Color(appTheme.String))
	case grammar.CategoryNumber:
		return style.Foreground(lipgloss.Color(appTheme.Number))
	case grammar.CategoryComment:
		return style.Foreground(lipgloss.Color(appTheme.Comment))
	case grammar.CategoryOperator:
		return style.Foreground(lipgloss.Color(appTheme.Operator)).Faint(true)
	case grammar.CategoryError:
		return style.Foreground(lipgloss.Color(appTheme.Error)).Bold(true)
	default:
		return style
	}
}

func renderDocument(lines []pipeline.RenderedLine, opts renderOptions) string {
	width := numberWidth(lines)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = renderLine(line, width, opts)
	}
	return strings.Join(out, "\n")
}

func fileHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Accent)).Bold(true)
}
