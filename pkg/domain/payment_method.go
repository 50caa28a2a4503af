package domain

import dErrors "deedflow/pkg/domain-errors"

// PaymentMethod tags how funds were submitted. Escrow-method payments credit
// the transaction's escrow balance at submission time.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodEscrow       PaymentMethod = "ESCROW"
	PaymentMethodMortgage     PaymentMethod = "MORTGAGE"
)

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodBankTransfer: true,
	PaymentMethodEscrow:       true,
	PaymentMethodMortgage:     true,
}

// ParsePaymentMethod constructs a PaymentMethod from external input.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown payment method: %s", s)
	}
	return m, nil
}

func (m PaymentMethod) IsValid() bool {
	return validPaymentMethods[m]
}

func (m PaymentMethod) String() string {
	return string(m)
}
