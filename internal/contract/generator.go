// Package contract provides the production contract-generation collaborator.
// The orchestrator consumes it through its own ContractGenerator interface so
// alternate implementations (AI-backed, mocked) can be injected at
// construction.
package contract

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"deedflow/internal/transaction"
	"deedflow/pkg/domain"
)

// TemplateVersion identifies the purchase-agreement template in generated
// records. Bump when the template body changes.
const TemplateVersion = "purchase-agreement/v1"

const agreementBody = `PURCHASE AGREEMENT ({{.TemplateVersion}})

Property: {{.Property.Address}} (ref {{.Property.ID}})
Sale price: {{.Property.Price}} (minor units)

Seller: {{.Seller.Name}} ({{.Seller.ID}})
Buyer:  {{.Buyer.Name}} ({{.Buyer.ID}})

The seller agrees to transfer ownership of the property to the buyer upon
verified documentation and confirmed payment of the full sale price.
Generated for transaction {{.TransactionID}} at {{.GeneratedAt}}.
`

// TemplateGenerator renders the purchase agreement from transaction fields.
type TemplateGenerator struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{
		tmpl: template.Must(template.New("purchase-agreement").Parse(agreementBody)),
		now:  time.Now,
	}
}

// Generate renders the agreement body. It satisfies
// transaction.ContractGenerator and is assumed by callers to always succeed
// for well-formed transactions.
func (g *TemplateGenerator) Generate(_ context.Context, tx *transaction.Transaction) (transaction.GeneratedContract, error) {
	generatedAt := g.now().UTC()
	data := struct {
		TemplateVersion string
		TransactionID   string
		Property        transaction.Property
		Seller          transaction.Party
		Buyer           transaction.Party
		GeneratedAt     string
	}{
		TemplateVersion: TemplateVersion,
		TransactionID:   tx.ID,
		Property:        tx.Property,
		Seller:          tx.Seller,
		Buyer:           tx.Buyer,
		GeneratedAt:     generatedAt.Format(time.RFC3339),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return transaction.GeneratedContract{}, fmt.Errorf("render purchase agreement: %w", err)
	}

	return transaction.GeneratedContract{
		ID:              domain.NewContractID(),
		TemplateVersion: TemplateVersion,
		GeneratedAt:     generatedAt,
		Content:         buf.String(),
	}, nil
}
