package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedflow/internal/transaction"
	"deedflow/pkg/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestWorkerDrainsPublisher(t *testing.T) {
	publisher := NewPublisher(16)
	sink := &recordingSink{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	worker := NewWorker(sink, publisher.Inbox(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	publisher.Offer("txn_1", transaction.AuditEvent{
		Timestamp:     time.Now(),
		Actor:         "notary-1",
		Action:        domain.ActionStatusChanged,
		Description:   "phase changed from INITIATED to CONTRACT_GENERATED",
		PreviousPhase: domain.PhaseInitiated,
		NewPhase:      domain.PhaseContractGenerated,
	})
	publisher.Offer("txn_1", transaction.AuditEvent{
		Actor:       "agent-1",
		Action:      domain.ActionEscrowOpened,
		Description: "escrow opened",
	})

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	events := sink.snapshot()
	assert.Equal(t, "txn_1", events[0].TransactionID)
	assert.Equal(t, "STATUS_CHANGED", events[0].Action)
	assert.Equal(t, "INITIATED", events[0].PreviousPhase)
	assert.Equal(t, "CONTRACT_GENERATED", events[0].NewPhase)
	assert.Equal(t, "ESCROW_OPENED", events[1].Action)
	assert.Empty(t, events[1].PreviousPhase)
}

func TestOfferDropsWhenBufferFull(t *testing.T) {
	publisher := NewPublisher(1)

	// No worker draining; the second offer must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		publisher.Offer("txn_1", transaction.AuditEvent{Action: domain.ActionEscrowOpened})
		publisher.Offer("txn_1", transaction.AuditEvent{Action: domain.ActionEscrowFunded})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Offer blocked on a full buffer")
	}
	assert.Len(t, publisher.inbox, 1)
}
