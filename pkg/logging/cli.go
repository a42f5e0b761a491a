package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// Handler renders slog records as single terminal lines: scoped prefix,
// message, then key=value attributes. Warnings and errors are colored,
// everything else is left plain so piped output stays clean.
type Handler struct {
	writer io.Writer
	level  slog.Level
	scope  string
	attrs  []slog.Attr
}

func NewHandler(w io.Writer, level slog.Level) *Handler {
	return &Handler{
		writer: w,
		level:  level,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if h.scope != "" {
		b.WriteString("[" + h.scope + "] ")
	}
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})

	line := b.String()
	switch {
	case r.Level >= slog.LevelError:
		line = colorRed + line + colorReset
	case r.Level >= slog.LevelWarn:
		line = colorYellow + line + colorReset
	}

	_, err := fmt.Fprintln(h.writer, line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.scope = name
	return &clone
}

// NewLogger builds a terminal logger at the given level string.
func NewLogger(level string) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, ParseLevel(level)))
}

// SetDefault installs the terminal logger as the process default.
func SetDefault(level string) {
	slog.SetDefault(NewLogger(level))
}

// ParseLevel converts a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
