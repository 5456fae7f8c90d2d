// Package pipeline composes tokenizer, byte-range indexer, highlight mapper
// and diff line numberer into one call.
//
// Render is a pure function. Engine adds the caller-side memo cache for the
// tokenize step and renders batches in parallel.
package pipeline

import (
	"codeview/internal/byterange"
	"codeview/internal/diffline"
	"codeview/internal/grammar"
	"codeview/internal/highlight"
	"codeview/internal/token"
	"codeview/internal/tokenizer"
)

// Input is one document to render. Highlights and Hover ranges MUST be UTF-8
// byte offsets into Source.
type Input struct {
	Source   string `json:"source"`
	Language string `json:"language"`

	Highlights []token.Range `json:"highlights,omitempty"`
	// Hover holds navigable ranges per zero-based line index.
	Hover map[int][]token.Range `json:"hover,omitempty"`

	LineStart int  `json:"lineStart,omitempty"`
	Diff      bool `json:"diff,omitempty"`
	// LineEnding defaults to token.Auto.
	LineEnding token.LineEnding `json:"lineEnding,omitempty"`
	Backend    grammar.Backend  `json:"backend,omitempty"`
	// Fragment marks Source as a snippet cut out of a larger file.
	Fragment bool `json:"fragment,omitempty"`
}

type RenderedLine struct {
	Segments   []token.Segment       `json:"segments"`
	LineNumber *int                  `json:"lineNumber"`
	Diff       *token.DiffLineNumber `json:"diffLineNumbers"`
}

// Render runs every stage on in without caching.
func Render(in Input) []RenderedLine {
	return assemble(in, tokenize(in))
}

func registryFor(in Input) *grammar.Registry {
	if in.Fragment {
		return grammar.DefaultFragments()
	}
	return grammar.Default()
}

func tokenize(in Input) []token.Line {
	return tokenizer.TokenizeWith(in.Source, in.Language, tokenizer.Options{
		Backend:     in.Backend,
		DiffMarkers: in.Diff,
		Registry:    registryFor(in),
	})
}

func assemble(in Input, lines []token.Line) []RenderedLine {
	ending := in.LineEnding
	if ending == "" {
		ending = token.Auto
	}

	indexed := byterange.Assign(lines, ending)
	segments := highlight.Map(indexed, in.Highlights)

	out := make([]RenderedLine, len(indexed))
	for i := range indexed {
		segs := segments[i]
		if candidates := in.Hover[i]; len(candidates) > 0 {
			segs = highlight.AttachHover(segs, indexed[i].Tokens, candidates)
		}
		out[i].Segments = segs
	}

	if !in.Diff {
		for i, n := range diffline.Unified(len(out), in.LineStart) {
			out[i].LineNumber = &n
		}
		return out
	}

	single := diffline.UnifiedDiff(lines, in.LineStart)
	pairs := diffline.Compute(lines, in.LineStart)
	for i := range out {
		out[i].LineNumber = single[i]
		out[i].Diff = &pairs[i]
	}
	return out
}

// Text joins the rendered segments of every line with "\n".
func Text(lines []RenderedLine) string {
	n := 0
	for _, line := range lines {
		for _, seg := range line.Segments {
			n += len(seg.Content)
		}
		n++
	}
	buf := make([]byte, 0, n)
	for i, line := range lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		for _, seg := range line.Segments {
			buf = append(buf, seg.Content...)
		}
	}
	return string(buf)
}
