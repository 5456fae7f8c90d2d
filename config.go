package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"codeview/internal/logger"
	"codeview/internal/token"

	"github.com/BurntSushi/toml"
)

type config struct {
	Language   string `toml:"language"`
	Highlights string `toml:"highlights"`
	Hover      string `toml:"hover"`
	Search     string `toml:"search"`
	Fuzzy      bool   `toml:"fuzzy"`
	Diff       bool   `toml:"diff"`
	LineStart  int    `toml:"line_start"`
	LineEnding string `toml:"line_ending"`
	Backend    string `toml:"backend"`
	Fragment   bool   `toml:"fragment"`

	Theme     string `toml:"theme"`
	Pager     bool   `toml:"pager"`
	JSON      bool   `toml:"json"`
	RoundRuns bool   `toml:"round_runs"`
	NoNumbers bool   `toml:"no_numbers"`
	EditorCmd string `toml:"editor_cmd"`

	CacheSize int           `toml:"cache_size"`
	CacheTTL  time.Duration `toml:"cache_ttl"`
	Workers   int           `toml:"workers"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	ConfigPath string   `toml:"-"`
	Files      []string `toml:"-"`

	// UnknownKeys are config file keys that matched no setting. They are
	// reported once logging is up.
	UnknownKeys []string `toml:"-"`
}

func defaultConfig() config {
	return config{
		LineEnding: string(token.Auto),
		Backend:    "auto",
		Theme:      "nord",
		CacheSize:  64,
		Workers:    max(1, runtime.GOMAXPROCS(0)-1),
		LogLevel:   "warn",
	}
}

// loadConfigFile decodes path over cfg. A missing file is not an error.
func loadConfigFile(path string, cfg *config) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.UnknownKeys = append(cfg.UnknownKeys, key.String())
	}
	return nil
}

// reportConfig logs what parseConfig found before the logger existed.
func reportConfig(cfg config) {
	if len(cfg.UnknownKeys) > 0 {
		logger.Warnf("config file %s: unrecognized keys: %s", cfg.ConfigPath, strings.Join(cfg.UnknownKeys, ", "))
	}
	logger.Debugf("config: backend %s, theme %s, cache %d, workers %d", cfg.Backend, cfg.Theme, cfg.CacheSize, cfg.Workers)
}

func bindFlags(fs *flag.FlagSet, cfg *config) {
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "TOML file with default settings")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "language tag (default: detect from file name)")
	fs.StringVar(&cfg.Highlights, "highlight", cfg.Highlights, `byte ranges to highlight, "start:end,start:end"`)
	fs.StringVar(&cfg.Hover, "hover", cfg.Hover, `navigable ranges per line, "line=start:end;line=start:end"`)
	fs.StringVar(&cfg.Search, "search", cfg.Search, "highlight every case-insensitive match of this text")
	fs.BoolVar(&cfg.Fuzzy, "fuzzy", cfg.Fuzzy, "treat -search as a fuzzy subsequence query")
	fs.BoolVar(&cfg.Diff, "diff", cfg.Diff, "render input as a unified diff with two gutters")
	fs.IntVar(&cfg.LineStart, "line-start", cfg.LineStart, "line number offset")
	fs.StringVar(&cfg.LineEnding, "line-ending", cfg.LineEnding, "byte cost of line breaks: auto, lf, crlf or cr")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "grammar backend: auto, treesitter, chroma or plain")
	fs.BoolVar(&cfg.Fragment, "fragment", cfg.Fragment, "input is a snippet cut from a larger file")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme (for example: nord, dracula, monokai, github, solarized-dark)")
	fs.BoolVar(&cfg.Pager, "pager", cfg.Pager, "open an interactive pager")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print rendered lines as JSON")
	fs.BoolVar(&cfg.RoundRuns, "round", cfg.RoundRuns, "draw rounded caps around highlight runs")
	fs.BoolVar(&cfg.NoNumbers, "no-numbers", cfg.NoNumbers, "hide line numbers")
	fs.StringVar(&cfg.EditorCmd, "editor-cmd", cfg.EditorCmd, "pager open command, supports {file} {line} {col} {target}")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "tokenized documents kept in memory")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "drop cached documents unused for this long (0 keeps them)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel renders when several files are given")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file (default: discard)")
}

// parseConfig reads flags twice: once to find -config, then over the file's
// values so explicit flags win.
func parseConfig(args []string) (config, error) {
	early := defaultConfig()
	pfs := flag.NewFlagSet("codeview", flag.ContinueOnError)
	pfs.SetOutput(io.Discard)
	bindFlags(pfs, &early)
	// Errors resurface, with usage, from the second parse.
	_ = pfs.Parse(args)

	cfg := defaultConfig()
	if err := loadConfigFile(early.ConfigPath, &cfg); err != nil {
		return config{}, err
	}

	fs := flag.NewFlagSet("codeview", flag.ContinueOnError)
	bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	cfg.Files = fs.Args()
	return cfg, nil
}

// parseRanges parses "start:end,start:end".
func parseRanges(v string) ([]token.Range, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	var out []token.Range
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseRange(part)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseRange(v string) (token.Range, error) {
	a, b, ok := strings.Cut(v, ":")
	if !ok {
		return token.Range{}, fmt.Errorf("range %q: want start:end", v)
	}
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return token.Range{}, fmt.Errorf("range %q: %w", v, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return token.Range{}, fmt.Errorf("range %q: %w", v, err)
	}
	return token.Range{Start: start, End: end}, nil
}

// parseHover parses "line=start:end;line=start:end" with zero-based lines.
func parseHover(v string) (map[int][]token.Range, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	out := make(map[int][]token.Range)
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lineStr, rng, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("hover %q: want line=start:end", part)
		}
		line, err := strconv.Atoi(strings.TrimSpace(lineStr))
		if err != nil {
			return nil, fmt.Errorf("hover %q: %w", part, err)
		}
		r, err := parseRange(rng)
		if err != nil {
			return nil, err
		}
		out[line] = append(out[line], r)
	}
	return out, nil
}
