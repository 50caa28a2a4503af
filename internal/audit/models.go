// Package audit fans transaction audit events out to external sinks. The
// aggregate's own trail is the system of record; fan-out copies are for
// downstream consumers (compliance feeds, dashboards) and may be dropped
// under backpressure without affecting the transaction.
package audit

import "time"

// Event is the flat, JSON-friendly shape published to sinks.
type Event struct {
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        string    `json:"action"`
	Description   string    `json:"description"`
	PreviousPhase string    `json:"previous_phase,omitempty"`
	NewPhase      string    `json:"new_phase,omitempty"`
}
