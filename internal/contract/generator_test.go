package contract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedflow/internal/transaction"
)

func TestTemplateGeneratorRendersTransactionFields(t *testing.T) {
	generator := NewTemplateGenerator()
	tx := &transaction.Transaction{
		ID:       "txn_1",
		Property: transaction.Property{ID: "prop-1", Address: "12 Harbor Lane", Price: 350000},
		Seller:   transaction.Party{ID: "seller-1", Name: "Ada Vendor"},
		Buyer:    transaction.Party{ID: "buyer-1", Name: "Ben Acquirer"},
	}

	generated, err := generator.Generate(context.Background(), tx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(generated.ID, "ctr_"))
	assert.Equal(t, TemplateVersion, generated.TemplateVersion)
	assert.False(t, generated.GeneratedAt.IsZero())
	assert.Contains(t, generated.Content, "12 Harbor Lane")
	assert.Contains(t, generated.Content, "Ada Vendor")
	assert.Contains(t, generated.Content, "Ben Acquirer")
	assert.Contains(t, generated.Content, "txn_1")
	assert.Contains(t, generated.Content, "350000")
}

func TestTemplateGeneratorIssuesDistinctIDs(t *testing.T) {
	generator := NewTemplateGenerator()
	tx := &transaction.Transaction{Property: transaction.Property{ID: "prop-1"}}

	first, err := generator.Generate(context.Background(), tx)
	require.NoError(t, err)
	second, err := generator.Generate(context.Background(), tx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
