package audit

import (
	"deedflow/internal/transaction"
)

// Publisher adapts the orchestrator's fan-out hook onto a buffered channel
// drained by the Worker. Offer never blocks: when the buffer is full the
// fan-out copy is dropped, never the aggregate's own trail.
type Publisher struct {
	inbox chan Event
}

// NewPublisher creates a publisher with the given buffer size.
func NewPublisher(buffer int) *Publisher {
	return &Publisher{inbox: make(chan Event, buffer)}
}

// Offer implements transaction.AuditFanout.
func (p *Publisher) Offer(txID string, event transaction.AuditEvent) {
	flat := Event{
		TransactionID: txID,
		Timestamp:     event.Timestamp,
		Actor:         event.Actor,
		Action:        event.Action.String(),
		Description:   event.Description,
		PreviousPhase: event.PreviousPhase.String(),
		NewPhase:      event.NewPhase.String(),
	}
	select {
	case p.inbox <- flat:
	default:
		// Buffer full; drop the copy.
	}
}

// Inbox exposes the channel for the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
