package events

import (
	"context"
	"log/slog"

	"github.com/daikazu/frontdoor/pkg/logger"
)

// LogSink writes events to a slog.Logger. Failed logins are logged at warn level.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a sink writing to log.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With(logger.Component("auth-events"))}
}

func (s *LogSink) Emit(ctx context.Context, e Event) {
	level := slog.LevelInfo
	if e.Type == LoginFailed {
		level = slog.LevelWarn
	}

	s.log.LogAttrs(ctx, level, "auth event",
		logger.EventType(string(e.Type)),
		slog.String("event_id", e.ID),
		logger.Email(e.Email),
		logger.AccountID(e.AccountID),
		logger.Reason(string(e.Reason)),
	)
}
