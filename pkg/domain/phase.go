package domain

import dErrors "deedflow/pkg/domain-errors"

// Phase is the transaction's position in the fixed sale lifecycle.
// Invariant: a transaction only ever moves along edges in phaseEdges.
//
// Usage: construct via ParsePhase at trust boundaries to enforce the closed
// set; direct casting bypasses validation.
type Phase string

const (
	PhaseInitiated                Phase = "INITIATED"
	PhaseContractGenerated        Phase = "CONTRACT_GENERATED"
	PhaseDocumentsPending         Phase = "DOCUMENTS_PENDING"
	PhaseDocumentsVerified        Phase = "DOCUMENTS_VERIFIED"
	PhasePaymentPending           Phase = "PAYMENT_PENDING"
	PhasePaymentReceived          Phase = "PAYMENT_RECEIVED"
	PhaseOwnershipTransferPending Phase = "OWNERSHIP_TRANSFER_PENDING"
	PhaseCompleted                Phase = "COMPLETED"
	PhaseCancelled                Phase = "CANCELLED"
	PhaseDisputed                 Phase = "DISPUTED"
)

var validPhases = map[Phase]bool{
	PhaseInitiated:                true,
	PhaseContractGenerated:        true,
	PhaseDocumentsPending:         true,
	PhaseDocumentsVerified:        true,
	PhasePaymentPending:           true,
	PhasePaymentReceived:          true,
	PhaseOwnershipTransferPending: true,
	PhaseCompleted:                true,
	PhaseCancelled:                true,
	PhaseDisputed:                 true,
}

// phaseEdges is the single source of truth for legal transitions. Cancellation
// and dispute edges are intentionally absent: their guards are closed-state
// checks (conflict-on-closed), not membership in this table.
var phaseEdges = map[Phase][]Phase{
	PhaseInitiated:                {PhaseContractGenerated},
	PhaseContractGenerated:        {PhaseDocumentsPending},
	PhaseDocumentsPending:         {PhaseDocumentsVerified},
	PhaseDocumentsVerified:        {PhasePaymentPending},
	PhasePaymentPending:           {PhasePaymentReceived},
	PhasePaymentReceived:          {PhaseOwnershipTransferPending},
	PhaseOwnershipTransferPending: {PhaseCompleted},
	PhaseDisputed:                 {PhaseOwnershipTransferPending},
}

// ParsePhase constructs a Phase from external input.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown phase: %s", s)
	}
	return p, nil
}

// IsValid checks membership in the closed phase set.
func (p Phase) IsValid() bool {
	return validPhases[p]
}

// IsTerminal reports whether the phase has no outgoing edges. DISPUTED is not
// terminal: it resolves back to OWNERSHIP_TRANSFER_PENDING.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

// CanTransition reports whether the lifecycle edge p -> next exists.
func (p Phase) CanTransition(next Phase) bool {
	for _, candidate := range phaseEdges[p] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}
