package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"codeview/internal/grammar"
	"codeview/internal/lang"
	"codeview/internal/logger"
	"codeview/internal/token"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

type EngineConfig struct {
	// CacheSize is the number of tokenized documents kept.
	CacheSize int
	// CacheTTL drops documents not read for this long; zero keeps them.
	CacheTTL time.Duration
	// Workers bounds RenderAll; zero means GOMAXPROCS.
	Workers int
}

type cacheKey struct {
	Hash     uint64
	Size     int
	Lang     lang.ID
	Backend  grammar.Backend
	Diff     bool
	Fragment bool
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%016x:%d:%s:%s:%t:%t", k.Hash, k.Size, k.Lang, k.Backend, k.Diff, k.Fragment)
}

type cachedLines struct {
	source string
	lines  []token.Line
}

// Engine memoizes tokenization on (content hash, language, backend). The
// later stages are cheap next to parsing and always run.
type Engine struct {
	cache   *docCache[cachedLines]
	workers int
}

func NewEngine(cfg EngineConfig) *Engine {
	size := cfg.CacheSize
	if size <= 0 {
		size = 64
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		cache:   newDocCache[cachedLines](size, cfg.CacheTTL),
		workers: workers,
	}
}

func keyFor(in Input) cacheKey {
	backend := in.Backend
	if backend == "" {
		backend = grammar.BackendAuto
	}
	return cacheKey{
		Hash:     xxhash.Sum64String(in.Source),
		Size:     len(in.Source),
		Lang:     lang.Resolve(in.Language),
		Backend:  backend,
		Diff:     in.Diff,
		Fragment: in.Fragment,
	}
}

// Tokens returns the token lines for in, from cache when possible. The
// returned slice is shared and must not be modified.
func (e *Engine) Tokens(in Input) []token.Line {
	key := keyFor(in)
	sameSource := func(c cachedLines) bool { return c.source == in.Source }
	if hit, ok := e.cache.Get(key.String(), sameSource); ok {
		return hit.lines
	}

	lines := tokenize(in)
	e.cache.Set(key.String(), cachedLines{source: in.Source, lines: lines})
	logger.Debugf("pipeline: tokenized %d bytes of %s into %d lines", len(in.Source), key.Lang, len(lines))
	return lines
}

func (e *Engine) Render(in Input) []RenderedLine {
	return assemble(in, e.Tokens(in))
}

// RenderAll renders inputs concurrently. The result is index-aligned with
// inputs. It fails only when ctx is done.
func (e *Engine) RenderAll(ctx context.Context, inputs []Input) ([][]RenderedLine, error) {
	out := make([][]RenderedLine, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.Render(inputs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops every cached document.
func (e *Engine) Invalidate() {
	e.cache.Purge()
}

type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

func (e *Engine) Stats() Stats {
	hits, misses := e.cache.stats()
	return Stats{Entries: e.cache.Len(), Hits: hits, Misses: misses}
}
