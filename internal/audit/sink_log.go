package audit

import (
	"context"
	"log/slog"
)

// LogSink writes audit events to the structured log. Used in dev and as the
// fallback when Kafka is not configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit",
		"transaction_id", event.TransactionID,
		"actor", event.Actor,
		"action", event.Action,
		"description", event.Description,
		"previous_phase", event.PreviousPhase,
		"new_phase", event.NewPhase,
	)
	return nil
}
