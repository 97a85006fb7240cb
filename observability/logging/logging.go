package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup configures process-wide structured JSON logging for the vault daemon
// and returns the root logger. Local and development environments log at
// debug level, everything else at info. The standard library logger is
// bridged onto the same handler so collaborator packages share one output.
func Setup(service, env string) *slog.Logger {
	env = strings.TrimSpace(env)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       levelFor(env),
		ReplaceAttr: renameAttr,
	})

	attrs := []slog.Attr{slog.String("service", strings.TrimSpace(service))}
	if env != "" {
		attrs = append(attrs, slog.String("env", env))
	}

	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	root := slog.New(handler).With(args...)
	slog.SetDefault(root)

	bridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return root
}

// levelFor maps the deployment environment onto a minimum log level.
func levelFor(env string) slog.Level {
	switch strings.ToLower(env) {
	case "", "local", "dev", "development":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func renameAttr(groups []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		return slog.Attr{Key: "timestamp", Value: attr.Value}
	case slog.LevelKey:
		return slog.String("severity", strings.ToUpper(attr.Value.String()))
	case slog.MessageKey:
		return slog.Attr{Key: "message", Value: attr.Value}
	}
	return attr
}
