package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "deedflow/pkg/domain-errors"
)

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("DOCUMENTS_PENDING")
	require.NoError(t, err)
	assert.Equal(t, PhaseDocumentsPending, p)

	_, err = ParsePhase("SHIPPED")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
	_, err = ParsePhase("")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestLifecycleEdges(t *testing.T) {
	assert.True(t, PhaseInitiated.CanTransition(PhaseContractGenerated))
	assert.True(t, PhaseDocumentsPending.CanTransition(PhaseDocumentsVerified))
	assert.True(t, PhaseDisputed.CanTransition(PhaseOwnershipTransferPending))

	// No skipping forward, no going back.
	assert.False(t, PhaseInitiated.CanTransition(PhaseDocumentsPending))
	assert.False(t, PhasePaymentPending.CanTransition(PhaseDocumentsPending))
	assert.False(t, PhaseCompleted.CanTransition(PhaseOwnershipTransferPending))
	assert.False(t, PhaseCancelled.CanTransition(PhaseInitiated))
}

func TestTerminalPhases(t *testing.T) {
	assert.True(t, PhaseCompleted.IsTerminal())
	assert.True(t, PhaseCancelled.IsTerminal())
	assert.False(t, PhaseDisputed.IsTerminal())
	assert.False(t, PhasePaymentPending.IsTerminal())
}

func TestParseDocumentKind(t *testing.T) {
	k, err := ParseDocumentKind("TITLE_DEED")
	require.NoError(t, err)
	assert.Equal(t, DocumentKindTitleDeed, k)

	_, err = ParseDocumentKind("NAPKIN_SKETCH")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestRequiredKindsExcludeOptional(t *testing.T) {
	assert.Len(t, RequiredDocumentKinds, 4)
	assert.NotContains(t, RequiredDocumentKinds, DocumentKindMortgageApproval)
	assert.NotContains(t, RequiredDocumentKinds, DocumentKindInspectionReport)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("ESCROW")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodEscrow, m)

	_, err = ParsePaymentMethod("CASH_UNDER_TABLE")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}
