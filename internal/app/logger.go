package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/vk/irgen/internal/model"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances. At debug
// level every record also names its source line.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   level <= slog.LevelDebug,
		ReplaceAttr: conversionErrorAttr,
	}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler).With("app", "irgen")
}

// conversionErrorAttr logs a *model.Error as a group so the kind and the
// offending cell can be filtered on without parsing the message.
func conversionErrorAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}
	var convErr *model.Error
	if !errors.As(err, &convErr) {
		return a
	}

	attrs := []any{slog.String("msg", err.Error()), slog.String("kind", string(convErr.Kind))}
	if !convErr.Ref.IsZero() {
		attrs = append(attrs, slog.String("ref", convErr.Ref.String()))
	}
	if convErr.Name != "" {
		attrs = append(attrs, slog.String("name", convErr.Name))
	}
	return slog.Group(a.Key, attrs...)
}
