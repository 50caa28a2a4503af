package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"deedflow/internal/platform/metrics"
	"deedflow/pkg/domain"
	dErrors "deedflow/pkg/domain-errors"
)

// ContractGenerator is the one-shot collaborator invoked at initiation. It is
// injected at construction so template-backed, AI-backed, or mocked
// implementations satisfy the same contract.
//
//go:generate mockgen -source=service.go -destination=mocks/service_mocks.go -package=mocks ContractGenerator
type ContractGenerator interface {
	Generate(ctx context.Context, tx *Transaction) (GeneratedContract, error)
}

// AuditFanout receives a copy of every appended audit event for out-of-band
// sinks (Kafka, log). Fan-out is observational: implementations must not
// block, and a dropped copy never affects the aggregate's own trail.
type AuditFanout interface {
	Offer(txID string, event AuditEvent)
}

// Service is the transaction orchestrator. It owns every transaction record,
// validates each mutating request against the current phase, applies
// transitions, maintains the audit trail, and runs the aggregation rules that
// trigger automatic phase advances.
//
// Every mutating operation is one atomic sequence of validations, mutations,
// and audit appends executed under the per-transaction lock; failures return
// before anything is saved.
type Service struct {
	store     Store
	locker    Locker
	generator ContractGenerator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	fanout    AuditFanout
	tracer    trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics attaches the prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditFanout attaches an out-of-band audit sink.
func WithAuditFanout(f AuditFanout) Option {
	return func(s *Service) { s.fanout = f }
}

func NewService(store Store, locker Locker, generator ContractGenerator, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		locker:    locker,
		generator: generator,
		logger:    logger,
		tracer:    otel.Tracer("deedflow/internal/transaction"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initiate creates the record in INITIATED, invokes the contract generator
// once, and synchronously runs the automatic transitions through
// CONTRACT_GENERATED into DOCUMENTS_PENDING.
func (s *Service) Initiate(ctx context.Context, property Property, seller, buyer Party) (*Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "transaction.Initiate")
	defer span.End()

	if property.ID == "" || seller.ID == "" || buyer.ID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "property, seller and buyer are required")
	}
	if property.Price <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "property price must be positive")
	}

	now := time.Now().UTC()
	tx := &Transaction{
		ID:        domain.NewTransactionID(),
		Property:  property,
		Seller:    seller,
		Buyer:     buyer,
		Phase:     domain.PhaseInitiated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx.appendAudit(AuditEvent{
		Actor:       seller.ID,
		Action:      domain.ActionTransactionCreated,
		Description: fmt.Sprintf("transaction created for property %s", property.ID),
	})

	generated, err := s.generator.Generate(ctx, tx.Clone())
	if err != nil {
		// Contract generation is assumed to succeed; a failure here is a
		// wiring problem, not a caller mistake.
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "contract generation failed")
	}
	tx.Contract = &generated
	tx.appendAudit(AuditEvent{
		Actor:       seller.ID,
		Action:      domain.ActionContractGenerated,
		Description: fmt.Sprintf("contract %s generated from template %s", generated.ID, generated.TemplateVersion),
	})

	if err := s.advance(tx, domain.PhaseContractGenerated, seller.ID); err != nil {
		return nil, err
	}
	if err := s.advance(tx, domain.PhaseDocumentsPending, seller.ID); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, tx); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save transaction")
	}
	s.publish(tx, 0)
	if s.metrics != nil {
		s.metrics.TransactionsInitiated.Inc()
	}
	s.logger.InfoContext(ctx, "transaction initiated",
		"transaction_id", tx.ID,
		"property_id", property.ID,
		"price", property.Price,
	)
	return tx.Clone(), nil
}

// OpenEscrow creates the transaction's single zero-balance escrow account. It
// does not gate on phase; escrow may be opened any time before release.
func (s *Service) OpenEscrow(ctx context.Context, txID, actor string) (*Transaction, error) {
	return s.mutate(ctx, txID, "transaction.OpenEscrow", func(tx *Transaction) error {
		if tx.Escrow != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "escrow account already open")
		}
		tx.Escrow = &EscrowAccount{
			ID:        domain.NewEscrowID(),
			HeldSince: time.Now().UTC(),
		}
		tx.appendAudit(AuditEvent{
			Actor:       actor,
			Action:      domain.ActionEscrowOpened,
			Description: fmt.Sprintf("escrow account %s opened", tx.Escrow.ID),
		})
		return nil
	})
}

// UploadDocument appends an unverified document. Legal only in
// DOCUMENTS_PENDING; upload itself never triggers a transition.
func (s *Service) UploadDocument(ctx context.Context, txID string, kind domain.DocumentKind, uploader, note string) (*Transaction, error) {
	return s.mutate(ctx, txID, "transaction.UploadDocument", func(tx *Transaction) error {
		if err := requirePhase(tx, "upload document", domain.PhaseDocumentsPending); err != nil {
			return err
		}
		if !kind.IsValid() {
			return dErrors.Newf(dErrors.CodeInvalidInput, "unknown document kind: %s", kind)
		}
		doc := Document{
			ID:         domain.NewDocumentID(),
			Kind:       kind,
			UploadedBy: uploader,
			UploadedAt: time.Now().UTC(),
			Note:       note,
		}
		tx.Documents = append(tx.Documents, doc)
		tx.appendAudit(AuditEvent{
			Actor:       uploader,
			Action:      domain.ActionDocumentUploaded,
			Description: fmt.Sprintf("document %s uploaded (%s)", doc.ID, doc.Kind),
		})
		return nil
	})
}

// VerifyDocument flips a document's verified flag exactly once, then
// evaluates the aggregation rule: when every required kind has at least one
// verified document, the transaction advances DOCUMENTS_PENDING ->
// DOCUMENTS_VERIFIED -> PAYMENT_PENDING in the same call.
func (s *Service) VerifyDocument(ctx context.Context, txID, documentID, verifier string) (*Transaction, error) {
	tx, err := s.mutate(ctx, txID, "transaction.VerifyDocument", func(tx *Transaction) error {
		if err := requirePhase(tx, "verify document", domain.PhaseDocumentsPending); err != nil {
			return err
		}
		doc := tx.documentByID(documentID)
		if doc == nil {
			return dErrors.Newf(dErrors.CodeNotFound, "document %s not found", documentID)
		}
		if doc.Verified {
			return dErrors.Newf(dErrors.CodeInvalidInput, "document %s already verified", documentID)
		}
		now := time.Now().UTC()
		doc.Verified = true
		doc.VerifiedBy = verifier
		doc.VerifiedAt = &now
		tx.appendAudit(AuditEvent{
			Actor:       verifier,
			Action:      domain.ActionDocumentVerified,
			Description: fmt.Sprintf("document %s verified (%s)", doc.ID, doc.Kind),
		})

		if tx.requiredDocumentsVerified() {
			if err := s.advance(tx, domain.PhaseDocumentsVerified, verifier); err != nil {
				return err
			}
			if err := s.advance(tx, domain.PhasePaymentPending, verifier); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.DocumentsVerified.Inc()
	}
	return tx, nil
}

// ProcessPayment appends an unconfirmed payment. Escrow-method amounts are
// credited to the escrow balance at submission time, before confirmation;
// that early credit is recorded as a separate funding event.
func (s *Service) ProcessPayment(ctx context.Context, txID string, amount int64, payer string, method domain.PaymentMethod, reference string) (*Transaction, error) {
	return s.mutate(ctx, txID, "transaction.ProcessPayment", func(tx *Transaction) error {
		if err := requirePhase(tx, "process payment", domain.PhasePaymentPending); err != nil {
			return err
		}
		if amount <= 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "payment amount must be positive")
		}
		if !method.IsValid() {
			return dErrors.Newf(dErrors.CodeInvalidInput, "unknown payment method: %s", method)
		}
		payment := Payment{
			ID:          domain.NewPaymentID(),
			Amount:      amount,
			Payer:       payer,
			Method:      method,
			Reference:   reference,
			SubmittedAt: time.Now().UTC(),
		}
		tx.Payments = append(tx.Payments, payment)
		tx.appendAudit(AuditEvent{
			Actor:       payer,
			Action:      domain.ActionPaymentSubmitted,
			Description: fmt.Sprintf("payment %s submitted: %d via %s", payment.ID, amount, method),
		})

		if method == domain.PaymentMethodEscrow && tx.Escrow != nil {
			tx.Escrow.Balance += amount
			tx.appendAudit(AuditEvent{
				Actor:       payer,
				Action:      domain.ActionEscrowFunded,
				Description: fmt.Sprintf("escrow %s funded with %d, balance now %d", tx.Escrow.ID, amount, tx.Escrow.Balance),
			})
		}
		return nil
	})
}

// ConfirmPayment flips a payment's confirmed flag exactly once, then
// evaluates the aggregation rule: when the confirmed total reaches the
// property price, the transaction advances PAYMENT_PENDING ->
// PAYMENT_RECEIVED -> OWNERSHIP_TRANSFER_PENDING in the same call. Any
// shortfall leaves it in PAYMENT_PENDING; overpayment is accepted.
func (s *Service) ConfirmPayment(ctx context.Context, txID, paymentID, confirmer string) (*Transaction, error) {
	tx, err := s.mutate(ctx, txID, "transaction.ConfirmPayment", func(tx *Transaction) error {
		if err := requirePhase(tx, "confirm payment", domain.PhasePaymentPending); err != nil {
			return err
		}
		payment := tx.paymentByID(paymentID)
		if payment == nil {
			return dErrors.Newf(dErrors.CodeNotFound, "payment %s not found", paymentID)
		}
		if payment.Confirmed {
			return dErrors.Newf(dErrors.CodeInvalidInput, "payment %s already confirmed", paymentID)
		}
		payment.Confirmed = true
		tx.appendAudit(AuditEvent{
			Actor:       confirmer,
			Action:      domain.ActionPaymentConfirmed,
			Description: fmt.Sprintf("payment %s confirmed: %d", payment.ID, payment.Amount),
		})

		if tx.confirmedTotal() >= tx.Property.Price {
			if err := s.advance(tx, domain.PhasePaymentReceived, confirmer); err != nil {
				return err
			}
			if err := s.advance(tx, domain.PhaseOwnershipTransferPending, confirmer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PaymentsConfirmed.Inc()
	}
	return tx, nil
}

// CompleteOwnershipTransfer finishes the sale. An unreleased escrow account
// is marked released (disbursed, balance untouched) before the transition.
func (s *Service) CompleteOwnershipTransfer(ctx context.Context, txID, notary string) (*Transaction, error) {
	tx, err := s.mutate(ctx, txID, "transaction.CompleteOwnershipTransfer", func(tx *Transaction) error {
		if err := requirePhase(tx, "complete ownership transfer", domain.PhaseOwnershipTransferPending); err != nil {
			return err
		}
		if tx.Escrow != nil && !tx.Escrow.Released {
			tx.Escrow.Released = true
			tx.appendAudit(AuditEvent{
				Actor:       notary,
				Action:      domain.ActionEscrowReleased,
				Description: fmt.Sprintf("escrow %s released, %d disbursed to seller", tx.Escrow.ID, tx.Escrow.Balance),
			})
		}
		if err := s.advance(tx, domain.PhaseCompleted, notary); err != nil {
			return err
		}
		now := time.Now().UTC()
		tx.CompletedAt = &now
		tx.appendAudit(AuditEvent{
			Actor:       notary,
			Action:      domain.ActionOwnershipTransferred,
			Description: fmt.Sprintf("ownership of property %s transferred to %s", tx.Property.ID, tx.Buyer.ID),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TransactionsCompleted.Inc()
	}
	return tx, nil
}

// Cancel moves the transaction to CANCELLED. Only a completed transaction
// refuses cancellation.
func (s *Service) Cancel(ctx context.Context, txID, actor, reason string) (*Transaction, error) {
	tx, err := s.mutate(ctx, txID, "transaction.Cancel", func(tx *Transaction) error {
		if tx.Phase == domain.PhaseCompleted {
			return dErrors.New(dErrors.CodeConflict, "completed transaction cannot be cancelled")
		}
		s.transition(tx, domain.PhaseCancelled, actor)
		now := time.Now().UTC()
		tx.CancelledAt = &now
		tx.appendAudit(AuditEvent{
			Actor:       actor,
			Action:      domain.ActionTransactionCancelled,
			Description: fmt.Sprintf("transaction cancelled: %s", reason),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TransactionsCancelled.Inc()
	}
	return tx, nil
}

// RaiseDispute moves the transaction to DISPUTED and stores the reason.
// Closed transactions (COMPLETED, CANCELLED) refuse disputes.
func (s *Service) RaiseDispute(ctx context.Context, txID, actor, reason string) (*Transaction, error) {
	tx, err := s.mutate(ctx, txID, "transaction.RaiseDispute", func(tx *Transaction) error {
		if tx.Phase.IsTerminal() {
			return dErrors.Newf(dErrors.CodeConflict, "cannot dispute a transaction in phase %s", tx.Phase)
		}
		tx.DisputeReason = reason
		s.transition(tx, domain.PhaseDisputed, actor)
		tx.appendAudit(AuditEvent{
			Actor:       actor,
			Action:      domain.ActionDisputeRaised,
			Description: fmt.Sprintf("dispute raised: %s", reason),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.DisputesRaised.Inc()
	}
	return tx, nil
}

// ResolveDispute clears the stored reason and returns the transaction to
// OWNERSHIP_TRANSFER_PENDING.
func (s *Service) ResolveDispute(ctx context.Context, txID, actor, resolution string) (*Transaction, error) {
	return s.mutate(ctx, txID, "transaction.ResolveDispute", func(tx *Transaction) error {
		if err := requirePhase(tx, "resolve dispute", domain.PhaseDisputed); err != nil {
			return err
		}
		tx.DisputeReason = ""
		if err := s.advance(tx, domain.PhaseOwnershipTransferPending, actor); err != nil {
			return err
		}
		tx.appendAudit(AuditEvent{
			Actor:       actor,
			Action:      domain.ActionDisputeResolved,
			Description: fmt.Sprintf("dispute resolved: %s", resolution),
		})
		return nil
	})
}

// Get is a pure read.
func (s *Service) Get(ctx context.Context, txID string) (*Transaction, error) {
	return s.load(ctx, txID)
}

// AuditLog returns the transaction's full trail in append order.
func (s *Service) AuditLog(ctx context.Context, txID string) ([]AuditEvent, error) {
	tx, err := s.load(ctx, txID)
	if err != nil {
		return nil, err
	}
	return tx.AuditLog, nil
}

// List returns every transaction in creation order.
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.store.List(ctx)
}

// mutate runs fn against the loaded aggregate under the per-transaction lock
// and saves only on success, so failed operations leave no partial state.
func (s *Service) mutate(ctx context.Context, txID, spanName string, fn func(tx *Transaction) error) (*Transaction, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	var out *Transaction
	err := s.locker.Do(ctx, txID, func(ctx context.Context) error {
		tx, err := s.load(ctx, txID)
		if err != nil {
			return err
		}
		auditLen := len(tx.AuditLog)
		if err := fn(tx); err != nil {
			return err
		}
		if err := s.store.Save(ctx, tx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "save transaction")
		}
		s.publish(tx, auditLen)
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, txID string) (*Transaction, error) {
	tx, err := s.store.FindByID(ctx, txID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "transaction %s not found", txID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load transaction")
	}
	return tx, nil
}

// advance applies an automatic transition and refuses edges outside the
// lifecycle table.
func (s *Service) advance(tx *Transaction, next domain.Phase, actor string) error {
	if !tx.Phase.CanTransition(next) {
		return dErrors.Newf(dErrors.CodeInvalidState, "illegal transition from %s to %s", tx.Phase, next)
	}
	s.transition(tx, next, actor)
	return nil
}

// transition applies the phase change and records exactly one STATUS_CHANGED
// event carrying the previous/new pair. Callers are responsible for guards.
func (s *Service) transition(tx *Transaction, next domain.Phase, actor string) {
	prev := tx.Phase
	tx.Phase = next
	tx.appendAudit(AuditEvent{
		Actor:         actor,
		Action:        domain.ActionStatusChanged,
		Description:   fmt.Sprintf("phase changed from %s to %s", prev, next),
		PreviousPhase: prev,
		NewPhase:      next,
	})
}

// publish offers audit events appended past from to the fan-out sink.
func (s *Service) publish(tx *Transaction, from int) {
	if s.fanout == nil {
		return
	}
	for _, event := range tx.AuditLog[from:] {
		s.fanout.Offer(tx.ID, event)
	}
}

// requirePhase enforces the operation's legal phase. The message names the
// current phase and the expected set; transport passes it through verbatim.
func requirePhase(tx *Transaction, op string, allowed ...domain.Phase) error {
	for _, phase := range allowed {
		if tx.Phase == phase {
			return nil
		}
	}
	return dErrors.Newf(dErrors.CodeInvalidState, "cannot %s in phase %s, expected %s", op, tx.Phase, phaseList(allowed))
}

func phaseList(phases []domain.Phase) string {
	out := ""
	for i, phase := range phases {
		if i > 0 {
			out += " or "
		}
		out += phase.String()
	}
	return out
}

// appendAudit stamps and appends one immutable trail entry.
func (t *Transaction) appendAudit(event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	t.AuditLog = append(t.AuditLog, event)
	t.UpdatedAt = event.Timestamp
}
