package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

type ThemePalette struct {
	Name string
	Text string

	Gutter       string
	GutterActive string
	AddedFG      string
	AddedBG      string
	RemovedFG    string
	RemovedBG    string
	MatchBG      string
	MatchFG      string
	CurrentBG    string
	StatusBG     string
	Muted        string
	Accent       string

	Keyword  string
	Type     string
	Function string
	String   string
	Number   string
	Comment  string
	Operator string
	Error    string
}

var appTheme = mustDefaultTheme()

func SetTheme(name string) error {
	palette, err := LoadThemePalette(name)
	if err != nil {
		return err
	}
	appTheme = palette
	return nil
}

func LoadThemePalette(name string) (ThemePalette, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		requested = "nord"
	}

	lookup := normalizeThemeName(requested)
	names := styles.Names()
	available := make(map[string]struct{}, len(names))
	for _, n := range names {
		available[n] = struct{}{}
	}
	unknownThemeErr := func() error {
		sort.Strings(names)
		return fmt.Errorf("unknown theme %q. try one of: %s", requested, strings.Join(topThemeHints(names), ", "))
	}
	if _, ok := available[lookup]; !ok {
		return ThemePalette{}, unknownThemeErr()
	}

	style := styles.Get(lookup)
	if style == nil {
		return ThemePalette{}, unknownThemeErr()
	}

	baseBG := pickBackground(style, "#2E3440", chroma.Background, chroma.LineHighlight)
	baseFG := pickForeground(style, "#D8DEE9", chroma.Text, chroma.Background)
	comment := pickForeground(style, adjustTone(baseFG, -60), chroma.Comment)
	added := pickForeground(style, "#A3BE8C", chroma.GenericInserted, chroma.LiteralString)
	removed := pickForeground(style, "#BF616A", chroma.GenericDeleted, chroma.Error)
	match := pickForeground(style, "#EBCB8B", chroma.NameFunction, chroma.Keyword)

	return ThemePalette{
		Name:         lookup,
		Text:         baseFG,
		Gutter:       pickForeground(style, adjustTone(baseFG, -48), chroma.LineNumbers, chroma.Comment),
		GutterActive: pickForeground(style, baseFG, chroma.LineNumbersTable, chroma.Text),
		AddedFG:      added,
		AddedBG:      mix(baseBG, added, 0.18),
		RemovedFG:    removed,
		RemovedBG:    mix(baseBG, removed, 0.18),
		MatchBG:      mix(baseBG, match, 0.45),
		MatchFG:      baseFG,
		CurrentBG:    pickBackground(style, autoSelection(baseBG), chroma.LineHighlight),
		StatusBG:     adjustTone(baseBG, autoDelta(baseBG, 12, -12)),
		Muted:        comment,
		Accent:       match,
		Keyword:      pickForeground(style, baseFG, chroma.Keyword),
		Type:         pickForeground(style, baseFG, chroma.KeywordType, chroma.NameClass),
		Function:     pickForeground(style, baseFG, chroma.NameFunction, chroma.Name),
		String:       pickForeground(style, baseFG, chroma.LiteralString),
		Number:       pickForeground(style, baseFG, chroma.LiteralNumber),
		Comment:      comment,
		Operator:     pickForeground(style, baseFG, chroma.Operator),
		Error:        pickForeground(style, "#BF616A", chroma.Error),
	}, nil
}

func normalizeThemeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			return entry.Colour.String()
		}
	}
	return fallback
}

func pickBackground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Background.IsSet() {
			return entry.Background.String()
		}
	}
	return fallback
}

func topThemeHints(all []string) []string {
	wanted := []string{"nord", "dracula", "monokai", "github", "github-dark", "solarized-dark", "solarized-light", "gruvbox", "onedark"}
	set := map[string]bool{}
	for _, n := range all {
		set[n] = true
	}
	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if set[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return all[:min(8, len(all))]
	}
	return out
}

func autoSelection(bg string) string {
	return adjustTone(bg, autoDelta(bg, 18, -18))
}

func autoDelta(bg string, darkDelta int, lightDelta int) int {
	r, g, b, ok := parseHexRGB(bg)
	if !ok {
		return darkDelta
	}
	l := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if l < 128 {
		return darkDelta
	}
	return lightDelta
}

func adjustTone(hex string, delta int) string {
	r, g, b, ok := parseHexRGB(hex)
	if !ok {
		return hex
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp8(r+delta), clamp8(g+delta), clamp8(b+delta))
}

// mix blends fg into bg by weight in [0, 1]. Unparseable input returns bg.
func mix(bg string, fg string, weight float64) string {
	br, bgG, bb, ok1 := parseHexRGB(bg)
	fr, fgG, fb, ok2 := parseHexRGB(fg)
	if !ok1 || !ok2 {
		return bg
	}
	blend := func(a, b int) int {
		return clamp8(int(float64(a)*(1-weight) + float64(b)*weight + 0.5))
	}
	return fmt.Sprintf("#%02X%02X%02X", blend(br, fr), blend(bgG, fgG), blend(bb, fb))
}

func parseHexRGB(hex string) (int, int, int, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int((v >> 16) & 0xFF), int((v >> 8) & 0xFF), int(v & 0xFF), true
}

func clamp8(v int) int {
	return min(max(v, 0), 255)
}

func mustDefaultTheme() ThemePalette {
	p, err := LoadThemePalette("nord")
	if err == nil {
		return p
	}
	return ThemePalette{
		Name:         "fallback",
		Text:         "#D8DEE9",
		Gutter:       "#4C566A",
		GutterActive: "#D8DEE9",
		AddedFG:      "#A3BE8C",
		AddedBG:      "#3B4A3F",
		RemovedFG:    "#BF616A",
		RemovedBG:    "#4A3A41",
		MatchBG:      "#7D7A5F",
		MatchFG:      "#D8DEE9",
		CurrentBG:    "#434C5E",
		StatusBG:     "#3B4252",
		Muted:        "#4C566A",
		Accent:       "#88C0D0",
		Keyword:      "#81A1C1",
		Type:         "#8FBCBB",
		Function:     "#88C0D0",
		String:       "#A3BE8C",
		Number:       "#B48EAD",
		Comment:      "#4C566A",
		Operator:     "#D8DEE9",
		Error:        "#BF616A",
	}
}
