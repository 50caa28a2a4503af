package transaction

import (
	"time"

	"deedflow/pkg/domain"
)

// Party identifies one side of the sale.
type Party struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Property is the subject of the sale. Price is in minor currency units.
type Property struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Price   int64  `json:"price"`
}

// Document is a collected artifact awaiting notarized verification.
// Appended, never removed; Verified flips false->true at most once.
type Document struct {
	ID         string              `json:"id"`
	Kind       domain.DocumentKind `json:"kind"`
	UploadedBy string              `json:"uploaded_by"`
	UploadedAt time.Time           `json:"uploaded_at"`
	Verified   bool                `json:"verified"`
	VerifiedBy string              `json:"verified_by,omitempty"`
	VerifiedAt *time.Time          `json:"verified_at,omitempty"`
	Note       string              `json:"note,omitempty"`
}

// Payment is a submitted transfer toward the property price.
// Appended, never removed; Confirmed flips false->true at most once.
type Payment struct {
	ID          string               `json:"id"`
	Amount      int64                `json:"amount"`
	Payer       string               `json:"payer"`
	Method      domain.PaymentMethod `json:"method"`
	Reference   string               `json:"reference"`
	SubmittedAt time.Time            `json:"submitted_at"`
	Confirmed   bool                 `json:"confirmed"`
}

// EscrowAccount holds submitted escrow funds until ownership transfer.
// Release marks funds as disbursed; it never zeroes the balance.
type EscrowAccount struct {
	ID        string    `json:"id"`
	Balance   int64     `json:"balance"`
	HeldSince time.Time `json:"held_since"`
	Released  bool      `json:"released"`
}

// GeneratedContract is the opaque record returned by the contract generation
// collaborator at initiation.
type GeneratedContract struct {
	ID              string    `json:"id"`
	TemplateVersion string    `json:"template_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	Content         string    `json:"content"`
}

// AuditEvent is one immutable entry in the transaction's tamper-evident
// trail. PreviousPhase/NewPhase are populated only for STATUS_CHANGED.
type AuditEvent struct {
	Timestamp     time.Time          `json:"timestamp"`
	Actor         string             `json:"actor"`
	Action        domain.AuditAction `json:"action"`
	Description   string             `json:"description"`
	PreviousPhase domain.Phase       `json:"previous_phase,omitempty"`
	NewPhase      domain.Phase       `json:"new_phase,omitempty"`
}

// Transaction is the aggregate root. It is exclusively owned by the
// orchestrator: stores hand out deep copies, never shared references.
type Transaction struct {
	ID            string             `json:"id"`
	Property      Property           `json:"property"`
	Seller        Party              `json:"seller"`
	Buyer         Party              `json:"buyer"`
	Phase         domain.Phase       `json:"phase"`
	Documents     []Document         `json:"documents"`
	Payments      []Payment          `json:"payments"`
	Escrow        *EscrowAccount     `json:"escrow,omitempty"`
	Contract      *GeneratedContract `json:"contract,omitempty"`
	AuditLog      []AuditEvent       `json:"audit_log"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	DisputeReason string             `json:"dispute_reason,omitempty"`
}

// Clone deep-copies the aggregate so callers cannot mutate stored state.
func (t *Transaction) Clone() *Transaction {
	out := *t
	out.Documents = append([]Document(nil), t.Documents...)
	out.Payments = append([]Payment(nil), t.Payments...)
	out.AuditLog = append([]AuditEvent(nil), t.AuditLog...)
	for i := range out.Documents {
		if ts := out.Documents[i].VerifiedAt; ts != nil {
			copied := *ts
			out.Documents[i].VerifiedAt = &copied
		}
	}
	if t.Escrow != nil {
		escrow := *t.Escrow
		out.Escrow = &escrow
	}
	if t.Contract != nil {
		contract := *t.Contract
		out.Contract = &contract
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		out.CompletedAt = &ts
	}
	if t.CancelledAt != nil {
		ts := *t.CancelledAt
		out.CancelledAt = &ts
	}
	return &out
}

// documentByID returns a pointer into Documents, or nil.
func (t *Transaction) documentByID(id string) *Document {
	for i := range t.Documents {
		if t.Documents[i].ID == id {
			return &t.Documents[i]
		}
	}
	return nil
}

// paymentByID returns a pointer into Payments, or nil.
func (t *Transaction) paymentByID(id string) *Payment {
	for i := range t.Payments {
		if t.Payments[i].ID == id {
			return &t.Payments[i]
		}
	}
	return nil
}

// requiredDocumentsVerified reports whether every required kind has at least
// one verified document.
func (t *Transaction) requiredDocumentsVerified() bool {
	for _, kind := range domain.RequiredDocumentKinds {
		verified := false
		for i := range t.Documents {
			if t.Documents[i].Kind == kind && t.Documents[i].Verified {
				verified = true
				break
			}
		}
		if !verified {
			return false
		}
	}
	return true
}

// confirmedTotal sums the amounts of confirmed payments.
func (t *Transaction) confirmedTotal() int64 {
	var total int64
	for i := range t.Payments {
		if t.Payments[i].Confirmed {
			total += t.Payments[i].Amount
		}
	}
	return total
}
