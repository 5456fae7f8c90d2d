package grammar

import (
	"errors"
	"fmt"
	"strings"

	"codeview/internal/token"

	"github.com/alecthomas/chroma/v2"
)

var errSourceMismatch = errors.New("lexer output does not match source")

type chromaGrammar struct {
	lexer chroma.Lexer
}

func (g *chromaGrammar) Name() string {
	if cfg := g.lexer.Config(); cfg != nil {
		return "chroma:" + strings.ToLower(cfg.Name)
	}
	return "chroma"
}

func (g *chromaGrammar) Tokenize(text string) ([]Piece, error) {
	if text == "" {
		return nil, nil
	}

	// EnsureLF stays off: line endings are part of the byte budget.
	it, err := g.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}

	pieces := make([]Piece, 0, 64)
	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		pieces = append(pieces, Piece{Tags: chromaTags(tok.Type), Content: tok.Value})
	}
	return clipToSource(pieces, text)
}

func chromaTags(tt chroma.TokenType) []string {
	if tt == chroma.Text || tt.Category() == chroma.Text || tt == chroma.Other {
		return []string{token.PlainTag}
	}
	if tt < 0 {
		return []string{tt.String()}
	}
	tags := make([]string, 0, 3)
	tags = appendTag(tags, tt.Category().String())
	tags = appendTag(tags, tt.SubCategory().String())
	tags = appendTag(tags, tt.String())
	return tags
}

// clipToSource checks that pieces spell text exactly. Lexers configured with
// EnsureNL append a newline the source never had; that tail is trimmed.
func clipToSource(pieces []Piece, text string) ([]Piece, error) {
	pos := 0
	out := pieces[:0]
	for _, p := range pieces {
		rest := text[pos:]
		switch {
		case strings.HasPrefix(rest, p.Content):
			out = append(out, p)
			pos += len(p.Content)
		case strings.HasPrefix(p.Content, rest) && onlyNewlines(p.Content[len(rest):]):
			if rest != "" {
				p.Content = rest
				out = append(out, p)
			}
			pos = len(text)
		default:
			return nil, fmt.Errorf("%w at byte %d", errSourceMismatch, pos)
		}
	}
	if pos != len(text) {
		return nil, fmt.Errorf("%w: consumed %d of %d bytes", errSourceMismatch, pos, len(text))
	}
	return out, nil
}

func onlyNewlines(s string) bool {
	return strings.Trim(s, "\n") == ""
}
