// Package logger is a small printf-style facade over log/slog.
//
// Nothing is written until Init is called; the default sink discards.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

var (
	level   = new(slog.LevelVar)
	current atomic.Pointer[slog.Logger]
)

func init() {
	current.Store(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})))
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", v)
	}
}

// Init routes log output to w at the given level. A nil writer discards.
func Init(lvl slog.Level, w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	level.Set(lvl)

	opts := slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	current.Store(slog.New(slog.NewTextHandler(w, &opts)))
}

func logAtLevel(lvl slog.Level, format string, args ...any) {
	l := current.Load()
	if !l.Enabled(context.Background(), lvl) {
		return
	}

	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), lvl, fmt.Sprintf(format, args...), pcs[0])
	_ = l.Handler().Handle(context.Background(), r)
}

func Debugf(format string, args ...any) { logAtLevel(slog.LevelDebug, format, args...) }

func Infof(format string, args ...any) { logAtLevel(slog.LevelInfo, format, args...) }

func Warnf(format string, args ...any) { logAtLevel(slog.LevelWarn, format, args...) }

func Errorf(format string, args ...any) { logAtLevel(slog.LevelError, format, args...) }
