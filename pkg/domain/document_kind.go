package domain

import dErrors "deedflow/pkg/domain-errors"

// DocumentKind tags what a collected document is. The set is closed so
// unknown kinds are rejected at the boundary rather than silently stored.
type DocumentKind string

const (
	DocumentKindTitleDeed         DocumentKind = "TITLE_DEED"
	DocumentKindSellerIdentity    DocumentKind = "SELLER_IDENTITY"
	DocumentKindBuyerIdentity     DocumentKind = "BUYER_IDENTITY"
	DocumentKindPurchaseAgreement DocumentKind = "PURCHASE_AGREEMENT"
	DocumentKindMortgageApproval  DocumentKind = "MORTGAGE_APPROVAL"
	DocumentKindInspectionReport  DocumentKind = "INSPECTION_REPORT"
)

var validDocumentKinds = map[DocumentKind]bool{
	DocumentKindTitleDeed:         true,
	DocumentKindSellerIdentity:    true,
	DocumentKindBuyerIdentity:     true,
	DocumentKindPurchaseAgreement: true,
	DocumentKindMortgageApproval:  true,
	DocumentKindInspectionReport:  true,
}

// RequiredDocumentKinds are the kinds that must each have at least one
// verified document before payment may begin. Mortgage approval and the
// inspection report are optional.
var RequiredDocumentKinds = []DocumentKind{
	DocumentKindTitleDeed,
	DocumentKindSellerIdentity,
	DocumentKindBuyerIdentity,
	DocumentKindPurchaseAgreement,
}

// ParseDocumentKind constructs a DocumentKind from external input.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown document kind: %s", s)
	}
	return k, nil
}

func (k DocumentKind) IsValid() bool {
	return validDocumentKinds[k]
}

func (k DocumentKind) String() string {
	return string(k)
}
