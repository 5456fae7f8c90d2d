// Package tokenizer turns source text into lines of tagged tokens.
//
// The grammar backend decides the tags; this package owns line splitting,
// whitespace normalization, empty-line sentinels and the plaintext fallback.
// Byte ranges are left unset; see package byterange.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"codeview/internal/grammar"
	"codeview/internal/lang"
	"codeview/internal/logger"
	"codeview/internal/token"
)

var errIncomplete = errors.New("grammar output does not cover the source")

type Options struct {
	Backend grammar.Backend
	// DiffMarkers isolates a leading "+" or "-" into its own token.
	DiffMarkers bool
	// Registry defaults to grammar.Default().
	Registry *grammar.Registry
}

// Tokenize uses the default registry and backend preference.
func Tokenize(source string, languageTag string) []token.Line {
	return TokenizeWith(source, languageTag, Options{})
}

// TokenizeWith never fails: a grammar error or panic yields the plaintext
// tokenization of the whole document.
func TokenizeWith(source string, languageTag string, opts Options) []token.Line {
	reg := opts.Registry
	if reg == nil {
		reg = grammar.Default()
	}

	g := reg.Lookup(lang.Resolve(languageTag), opts.Backend)
	pieces, err := run(g, source)
	if err != nil {
		logger.Warnf("tokenizer: %s failed, using plaintext: %v", g.Name(), err)
		pieces, _ = grammar.Plain.Tokenize(source)
	}

	return buildLines(source, pieces, opts.DiffMarkers)
}

func run(g grammar.Grammar, source string) (pieces []grammar.Piece, err error) {
	defer func() {
		if r := recover(); r != nil {
			pieces = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	pieces, err = g.Tokenize(source)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, p := range pieces {
		n += len(p.Content)
	}
	if n != len(source) {
		return nil, fmt.Errorf("%w: %d of %d bytes", errIncomplete, n, len(source))
	}
	return pieces, nil
}

// lineSpan is one source line: content [start, end) then term terminator bytes.
type lineSpan struct {
	start int
	end   int
	term  int
}

func splitLines(source string) []lineSpan {
	spans := make([]lineSpan, 0, strings.Count(source, "\n")+1)
	start := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			spans = append(spans, lineSpan{start: start, end: i, term: 1})
			start = i + 1
		case '\r':
			term := 1
			if i+1 < len(source) && source[i+1] == '\n' {
				term = 2
			}
			spans = append(spans, lineSpan{start: start, end: i, term: term})
			i += term - 1
			start = i + 1
		}
	}
	return append(spans, lineSpan{start: start, end: len(source)})
}

func buildLines(source string, pieces []grammar.Piece, diffMarkers bool) []token.Line {
	spans := splitLines(source)
	lines := make([]token.Line, 0, len(spans))

	pi, pstart := 0, 0
	for _, span := range spans {
		var toks []token.Token
		for pi < len(pieces) {
			p := pieces[pi]
			pend := pstart + len(p.Content)

			s, e := max(pstart, span.start), min(pend, span.end)
			if e > s {
				toks = appendNormalized(toks, p.Tags, source[s:e])
			}

			// A piece that runs past this line's terminator is picked up
			// again by the next line.
			if pend > span.end+span.term {
				break
			}
			pi++
			pstart = pend
		}

		if diffMarkers {
			toks = isolateDiffMarker(toks)
		}
		if len(toks) == 0 {
			toks = []token.Token{token.EmptyToken()}
		}
		lines = append(lines, token.Line{Tokens: toks, Terminator: span.term})
	}
	return lines
}

// appendNormalized splits leading and trailing whitespace off a token whose
// remainder is a single non-whitespace run. All-whitespace tokens and tokens
// with inner whitespace are kept whole.
func appendNormalized(toks []token.Token, tags []string, content string) []token.Token {
	if content == "" {
		return toks
	}

	core := strings.TrimLeftFunc(content, unicode.IsSpace)
	lead := content[:len(content)-len(core)]
	core = strings.TrimRightFunc(core, unicode.IsSpace)
	trail := content[len(lead)+len(core):]

	if core == "" || (lead == "" && trail == "") || strings.IndexFunc(core, unicode.IsSpace) >= 0 {
		return append(toks, token.Token{Tags: tags, Content: content})
	}

	if lead != "" {
		toks = append(toks, token.Token{Tags: []string{token.PlainTag}, Content: lead})
	}
	toks = append(toks, token.Token{Tags: tags, Content: core})
	if trail != "" {
		toks = append(toks, token.Token{Tags: []string{token.PlainTag}, Content: trail})
	}
	return toks
}

func isolateDiffMarker(toks []token.Token) []token.Token {
	if len(toks) == 0 {
		return toks
	}
	first := toks[0]
	if len(first.Content) < 2 || (first.Content[0] != '+' && first.Content[0] != '-') {
		return toks
	}

	out := make([]token.Token, 0, len(toks)+2)
	out = append(out, token.Token{
		Tags:    []string{token.PlainTag, token.DiffMarkerTag},
		Content: first.Content[:1],
	})
	out = appendNormalized(out, first.Tags, first.Content[1:])
	return append(out, toks[1:]...)
}
