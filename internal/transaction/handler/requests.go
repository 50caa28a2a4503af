package handler

// PartyPayload identifies a buyer or seller in requests.
type PartyPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PropertyPayload describes the property under sale. Price is in minor
// currency units.
type PropertyPayload struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Price   int64  `json:"price"`
}

// InitiateRequest creates a new transaction.
type InitiateRequest struct {
	Property PropertyPayload `json:"property"`
	Seller   PartyPayload    `json:"seller"`
	Buyer    PartyPayload    `json:"buyer"`
}

// UploadDocumentRequest appends a document for verification.
type UploadDocumentRequest struct {
	Kind     string `json:"kind"`
	Uploader string `json:"uploader"`
	Note     string `json:"note,omitempty"`
}

// VerifyDocumentRequest records the external verifier's approval.
type VerifyDocumentRequest struct {
	Verifier string `json:"verifier"`
}

// ProcessPaymentRequest submits funds toward the sale price.
type ProcessPaymentRequest struct {
	Amount    int64  `json:"amount"`
	Payer     string `json:"payer"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// ConfirmPaymentRequest records the banking collaborator's confirmation.
type ConfirmPaymentRequest struct {
	Confirmer string `json:"confirmer"`
}

// ActorRequest carries the acting identity for escrow open and completion.
type ActorRequest struct {
	Actor string `json:"actor"`
}

// ReasonRequest carries the acting identity plus free-text for cancellation,
// dispute, and resolution.
type ReasonRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}
