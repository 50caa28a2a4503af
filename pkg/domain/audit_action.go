package domain

// AuditAction classifies an audit trail entry. Every phase transition is
// recorded as exactly one StatusChanged entry carrying the previous/new pair;
// the other actions record non-transition facts.
type AuditAction string

const (
	ActionTransactionCreated   AuditAction = "TRANSACTION_CREATED"
	ActionContractGenerated    AuditAction = "CONTRACT_GENERATED"
	ActionStatusChanged        AuditAction = "STATUS_CHANGED"
	ActionEscrowOpened         AuditAction = "ESCROW_OPENED"
	ActionEscrowFunded         AuditAction = "ESCROW_FUNDED"
	ActionEscrowReleased       AuditAction = "ESCROW_RELEASED"
	ActionDocumentUploaded     AuditAction = "DOCUMENT_UPLOADED"
	ActionDocumentVerified     AuditAction = "DOCUMENT_VERIFIED"
	ActionPaymentSubmitted     AuditAction = "PAYMENT_SUBMITTED"
	ActionPaymentConfirmed     AuditAction = "PAYMENT_CONFIRMED"
	ActionOwnershipTransferred AuditAction = "OWNERSHIP_TRANSFERRED"
	ActionTransactionCancelled AuditAction = "TRANSACTION_CANCELLED"
	ActionDisputeRaised        AuditAction = "DISPUTE_RAISED"
	ActionDisputeResolved      AuditAction = "DISPUTE_RESOLVED"
)

func (a AuditAction) String() string {
	return string(a)
}
