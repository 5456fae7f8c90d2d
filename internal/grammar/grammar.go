// Package grammar turns source text into a flat stream of tagged pieces.
//
// A Grammar is one backend bound to one language. The Registry picks a
// backend for a language tag and falls back to plaintext when nothing else
// applies, so a lookup always yields something usable.
package grammar

import (
	"fmt"
	"strings"
	"sync"

	"codeview/internal/lang"
	"codeview/internal/logger"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	sitter "github.com/smacker/go-tree-sitter"
)

// Piece is a run of source text with its grammar tags, outer to inner.
// Pieces may span line breaks; the tokenizer splits them.
type Piece struct {
	Tags    []string
	Content string
}

type Grammar interface {
	Name() string
	Tokenize(text string) ([]Piece, error)
}

type Backend string

const (
	BackendAuto       Backend = "auto"
	BackendTreeSitter Backend = "treesitter"
	BackendChroma     Backend = "chroma"
	BackendPlain      Backend = "plain"
)

func ParseBackend(v string) (Backend, error) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", string(BackendAuto):
		return BackendAuto, nil
	case string(BackendTreeSitter), "tree-sitter", "ts":
		return BackendTreeSitter, nil
	case string(BackendChroma):
		return BackendChroma, nil
	case string(BackendPlain), "plaintext":
		return BackendPlain, nil
	default:
		return "", fmt.Errorf("invalid grammar backend %q (use auto, treesitter, chroma or plain)", v)
	}
}

type Registry struct {
	sitterLangs map[lang.ID]*sitter.Language
	parsers     sync.Pool

	// Fragments wraps partial tree-sitter input (a statement, a search
	// snippet) in a minimal enclosing declaration before parsing.
	Fragments bool
}

func NewRegistry() *Registry {
	r := &Registry{sitterLangs: sitterLanguages()}
	r.parsers.New = func() any { return sitter.NewParser() }
	return r
}

var (
	defaultRegistry  = sync.OnceValue(NewRegistry)
	fragmentRegistry = sync.OnceValue(func() *Registry {
		r := NewRegistry()
		r.Fragments = true
		return r
	})
)

// Default returns the process-wide registry. It holds no per-call state.
func Default() *Registry {
	return defaultRegistry()
}

// DefaultFragments is Default with Fragments set.
func DefaultFragments() *Registry {
	return fragmentRegistry()
}

// Lookup never returns nil.
func (r *Registry) Lookup(id lang.ID, backend Backend) Grammar {
	if id == lang.Plain || backend == BackendPlain {
		return Plain
	}

	if backend == BackendAuto || backend == BackendTreeSitter {
		if language, ok := r.sitterLangs[id]; ok && language != nil {
			return &sitterGrammar{registry: r, id: id, language: language}
		}
		if backend == BackendTreeSitter {
			logger.Debugf("grammar: no tree-sitter grammar for %q, using plaintext", id)
			return Plain
		}
	}

	if lexer := lexers.Get(string(id)); lexer != nil {
		return &chromaGrammar{lexer: chroma.Coalesce(lexer)}
	}

	logger.Debugf("grammar: unknown language %q, using plaintext", id)
	return Plain
}

func (r *Registry) Supports(id lang.ID) bool {
	if _, ok := r.sitterLangs[id]; ok {
		return true
	}
	return lexers.Get(string(id)) != nil
}

func (r *Registry) getParser() *sitter.Parser {
	return r.parsers.Get().(*sitter.Parser)
}

func (r *Registry) putParser(p *sitter.Parser) {
	r.parsers.Put(p)
}

func appendTag(tags []string, tag string) []string {
	if tag == "" {
		return tags
	}
	if n := len(tags); n > 0 && tags[n-1] == tag {
		return tags
	}
	return append(tags, tag)
}
