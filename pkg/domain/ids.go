package domain

import "github.com/google/uuid"

// Entity identifiers are prefixed UUID strings so a bare ID in a log line or
// an audit entry is self-describing.
const (
	prefixTransaction = "txn_"
	prefixDocument    = "doc_"
	prefixPayment     = "pay_"
	prefixEscrow      = "esc_"
	prefixContract    = "ctr_"
)

func NewTransactionID() string { return prefixTransaction + uuid.NewString() }
func NewDocumentID() string    { return prefixDocument + uuid.NewString() }
func NewPaymentID() string     { return prefixPayment + uuid.NewString() }
func NewEscrowID() string      { return prefixEscrow + uuid.NewString() }
func NewContractID() string    { return prefixContract + uuid.NewString() }
