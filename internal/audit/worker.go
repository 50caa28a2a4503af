package audit

import (
	"context"
	"log/slog"
)

// Sink delivers one audit event to an external destination.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from the publisher's channel and hands them to
// a sink. Delivery failures are logged and skipped; fan-out is observational.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit fan-out failed",
					"transaction_id", event.TransactionID,
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
