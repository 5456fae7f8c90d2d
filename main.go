package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"codeview/internal/grammar"
	"codeview/internal/lang"
	"codeview/internal/logger"
	"codeview/internal/pipeline"
	"codeview/internal/readfile"
	"codeview/internal/search"
	"codeview/internal/token"

	tea "github.com/charmbracelet/bubbletea"
)

// document is one input file with everything needed to render it.
type document struct {
	Name  string
	Input pipeline.Input
	// Marks are the -highlight ranges alone, without search hits.
	Marks []token.Range
}

type jsonDocument struct {
	File  string                  `json:"file"`
	Lines []pipeline.RenderedLine `json:"lines"`
}

// setupLogging routes logs to cfg.LogFile. The returned func closes it.
func setupLogging(cfg config) (func(), error) {
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		logger.Init(lvl, io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Init(lvl, f)
	return func() { _ = f.Close() }, nil
}

// searchRanges turns a -search term into byte ranges. Fuzzy queries mark each
// matched rune of every matching line.
func searchRanges(source string, term string, fuzzy bool) []token.Range {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	if !fuzzy {
		return search.Ranges(source, term)
	}
	var out []token.Range
	for _, m := range search.Fuzzy(source, term) {
		out = append(out, m.Ranges...)
	}
	return out
}

// loadDocuments reads every file in cfg (stdin when none) and builds the
// pipeline inputs from the shared flags.
func loadDocuments(cfg config, stdin io.Reader) ([]document, error) {
	ending, err := token.ParseLineEnding(cfg.LineEnding)
	if err != nil {
		return nil, err
	}
	backend, err := grammar.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	highlights, err := parseRanges(cfg.Highlights)
	if err != nil {
		return nil, fmt.Errorf("invalid -highlight: %w", err)
	}
	hover, err := parseHover(cfg.Hover)
	if err != nil {
		return nil, fmt.Errorf("invalid -hover: %w", err)
	}

	files := cfg.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	docs := make([]document, 0, len(files))
	for _, path := range files {
		src, err := readfile.Source(path, stdin)
		if err != nil {
			return nil, err
		}

		language := cfg.Language
		if strings.TrimSpace(language) == "" {
			language = string(lang.DetectWithShebang(path, readfile.FirstLine(src)))
		}

		name := path
		if name == "-" {
			name = "<stdin>"
		}
		if !grammar.Default().Supports(lang.Resolve(language)) {
			logger.Infof("%s: no grammar for %q, rendering as plain text", name, language)
		}
		logger.Debugf("loaded %s: %d bytes, language %s", name, len(src), language)

		docs = append(docs, document{
			Name:  name,
			Marks: highlights,
			Input: pipeline.Input{
				Source:     src,
				Language:   language,
				Highlights: append(append([]token.Range(nil), highlights...), searchRanges(src, cfg.Search, cfg.Fuzzy)...),
				Hover:      hover,
				LineStart:  cfg.LineStart,
				Diff:       cfg.Diff,
				LineEnding: ending,
				Backend:    backend,
				Fragment:   cfg.Fragment,
			},
		})
	}
	return docs, nil
}

func writeJSON(w io.Writer, docs []document, rendered [][]pipeline.RenderedLine) error {
	out := make([]jsonDocument, len(docs))
	for i, doc := range docs {
		out[i] = jsonDocument{File: doc.Name, Lines: rendered[i]}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, cfg config, docs []document, rendered [][]pipeline.RenderedLine) error {
	opts := renderOptions{Diff: cfg.Diff, Numbers: !cfg.NoNumbers, RoundRuns: cfg.RoundRuns}
	header := fileHeaderStyle()
	for i, doc := range docs {
		if len(docs) > 1 {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, header.Render(doc.Name)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, renderDocument(rendered[i], opts)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "codeview: %v\n", err)
		os.Exit(2)
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	reportConfig(cfg)

	if err := SetTheme(cfg.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -theme: %v\n", err)
		os.Exit(1)
	}

	docs, err := loadDocuments(cfg, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codeview: %v\n", err)
		os.Exit(1)
	}

	engine := pipeline.NewEngine(pipeline.EngineConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Workers:   cfg.Workers,
	})

	if cfg.Pager {
		opts := []tea.ProgramOption{tea.WithAltScreen()}
		if len(cfg.Files) == 0 {
			// stdin held the document; keys come from the terminal.
			opts = append(opts, tea.WithInputTTY())
		}
		p := tea.NewProgram(newPagerModel(cfg, docs, engine), opts...)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "codeview failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputs := make([]pipeline.Input, len(docs))
	for i, doc := range docs {
		inputs[i] = doc.Input
	}
	rendered, err := engine.RenderAll(ctx, inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codeview: %v\n", err)
		os.Exit(1)
	}
	stats := engine.Stats()
	logger.Debugf("rendered %d documents, cache hits %d misses %d", len(docs), stats.Hits, stats.Misses)

	if cfg.JSON {
		err = writeJSON(os.Stdout, docs, rendered)
	} else {
		err = writeText(os.Stdout, cfg, docs, rendered)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "codeview: %v\n", err)
		os.Exit(1)
	}
}
