package grammar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"codeview/internal/lang"
	"codeview/internal/token"

	sitter "github.com/smacker/go-tree-sitter"
)

var errNoTree = errors.New("tree-sitter returned no tree")

type sitterGrammar struct {
	registry *Registry
	id       lang.ID
	language *sitter.Language
}

func (g *sitterGrammar) Name() string {
	return "treesitter:" + string(g.id)
}

func (g *sitterGrammar) Tokenize(text string) ([]Piece, error) {
	if text == "" {
		return nil, nil
	}

	source, lo, hi := []byte(text), 0, len(text)
	if g.registry.Fragments {
		source, lo, hi = scaffold(g.id, text)
	}

	parser := g.registry.getParser()
	defer g.registry.putParser(parser)
	parser.SetLanguage(g.language)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), errNoTree)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), errNoTree)
	}

	w := leafWalker{
		src:   source,
		lo:    lo,
		hi:    hi,
		lang:  g.id,
		spans: make([]rawSpan, 0, 256),
	}
	w.walk(root, "", "")
	return w.pieces(text), nil
}

type rawSpan struct {
	Start int
	End   int
	Tags  []string
}

// leafWalker collects leaf spans inside [lo, hi) of src, shifted so lo is 0.
type leafWalker struct {
	src   []byte
	lo    int
	hi    int
	lang  lang.ID
	spans []rawSpan
}

func (w *leafWalker) walk(node *sitter.Node, parentType string, grandType string) {
	if node == nil {
		return
	}

	start := int(node.StartByte())
	end := int(node.EndByte())
	if end <= w.lo || start >= w.hi {
		return
	}

	nodeType := node.Type()
	if node.ChildCount() == 0 {
		w.emit(start, end, nodeType, node.IsNamed(), parentType, grandType)
		return
	}

	// Bytes owned by this node but by none of its children, such as the body
	// of a string literal in some grammars, are classified as the node.
	cursor := start
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		cs := int(child.StartByte())
		if cs > cursor {
			w.gap(cursor, cs, nodeType, node.IsNamed(), parentType, grandType)
		}
		w.walk(child, nodeType, parentType)
		if ce := int(child.EndByte()); ce > cursor {
			cursor = ce
		}
	}
	if end > cursor {
		w.gap(cursor, end, nodeType, node.IsNamed(), parentType, grandType)
	}
}

func (w *leafWalker) gap(start int, end int, nodeType string, named bool, parentType string, grandType string) {
	if isBlank(w.src[start:end]) {
		return
	}
	w.emit(start, end, nodeType, named, parentType, grandType)
}

func (w *leafWalker) emit(start int, end int, nodeType string, named bool, parentType string, grandType string) {
	clippedStart := max(start, w.lo)
	clippedEnd := min(end, w.hi)
	if clippedStart >= clippedEnd {
		return
	}

	cat := classifyLeaf(w.lang, nodeType, named, parentType, grandType, w.src[start:end])
	tags := make([]string, 0, 4)
	tags = appendTag(tags, grandType)
	tags = appendTag(tags, parentType)
	tags = appendTag(tags, nodeType)
	if cat != CategoryPlain {
		tags = appendTag(tags, string(cat))
	}

	w.spans = append(w.spans, rawSpan{
		Start: clippedStart - w.lo,
		End:   clippedEnd - w.lo,
		Tags:  tags,
	})
}

// pieces covers text end to end: bytes between leaves become plain pieces.
func (w *leafWalker) pieces(text string) []Piece {
	out := make([]Piece, 0, len(w.spans)*2+1)
	cursor := 0
	for _, span := range w.spans {
		start := max(span.Start, cursor)
		end := min(span.End, len(text))
		if end <= start {
			continue
		}
		if start > cursor {
			out = append(out, Piece{Tags: []string{token.PlainTag}, Content: text[cursor:start]})
		}
		out = append(out, Piece{Tags: span.Tags, Content: text[start:end]})
		cursor = end
	}
	if cursor < len(text) {
		out = append(out, Piece{Tags: []string{token.PlainTag}, Content: text[cursor:]})
	}
	return out
}

func isBlank(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// scaffold wraps a fragment in the smallest enclosing declaration the grammar
// accepts and reports where the fragment sits inside the wrapped source.
func scaffold(id lang.ID, text string) ([]byte, int, int) {
	prefix := ""
	suffix := "\n"

	switch id {
	case lang.Go:
		if strings.HasPrefix(strings.TrimSpace(text), "package ") {
			return []byte(text), 0, len(text)
		}
		prefix = "package p\nfunc _codeview_() {\n"
		suffix = "\n}\n"
	case lang.Rust:
		prefix = "fn _codeview_() {\n"
		suffix = "\n}\n"
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		prefix = "function _codeview_() {\n"
		suffix = "\n}\n"
	case lang.C, lang.CPP:
		prefix = "void _codeview_() {\n"
		suffix = "\n}\n"
	case lang.JSON:
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return []byte(text), 0, len(text)
		}
		prefix = "{\n"
		suffix = "\n}\n"
	}

	source := []byte(prefix + text + suffix)
	start := len(prefix)
	end := start + len(text)
	return source, start, end
}
