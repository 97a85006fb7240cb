package logging

import (
	"log/slog"

	"claimvault/core/events"
	"claimvault/core/types"
)

type payloadEvent interface {
	Event() *types.Event
}

// EventLogger is an events.Emitter that logs every vault domain event through
// the supplied structured logger.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger wraps the logger; nil falls back to the default logger.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogger{logger: logger}
}

// Emit implements events.Emitter.
func (l *EventLogger) Emit(evt events.Event) {
	if l == nil || evt == nil {
		return
	}
	args := []any{slog.String("event", evt.EventType())}
	if payload, ok := evt.(payloadEvent); ok {
		if typed := payload.Event(); typed != nil {
			for key, value := range typed.Attributes {
				args = append(args, MaskField(key, value))
			}
		}
	}
	l.logger.Info("vault event", args...)
}
