package common

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel maps a configured level name onto slog levels.
// Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// NewLogger builds a logger writing to w in the given format (console or json).
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogger replaces the default slog logger.
func SetupLogger(w io.Writer, level slog.Level, format string) {
	slog.SetDefault(NewLogger(w, level, format))
}

// attrs orders fields by key so repeated log lines read the same.
func (f Fields) attrs(extra ...slog.Attr) []slog.Attr {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := append(make([]slog.Attr, 0, len(keys)+len(extra)), extra...)
	for _, k := range keys {
		out = append(out, slog.Any(k, f[k]))
	}
	return out
}

func logFields(level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogError logs err with fields at error level.
func LogError(err error, msg string, fields Fields) {
	logFields(slog.LevelError, msg, fields.attrs(slog.Any("error", err)))
}

// LogWarn logs err with fields at warn level, for failures the command
// can work around.
func LogWarn(err error, msg string, fields Fields) {
	logFields(slog.LevelWarn, msg, fields.attrs(slog.Any("error", err)))
}

// LogInfo logs msg with fields.
func LogInfo(msg string, fields Fields) {
	logFields(slog.LevelInfo, msg, fields.attrs())
}

// LogDebug logs msg with fields at debug level.
func LogDebug(msg string, fields Fields) {
	logFields(slog.LevelDebug, msg, fields.attrs())
}
