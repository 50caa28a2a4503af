package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "deedflow/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewService("test-signing-key", "deedflow")

	token, err := service.GenerateToken("notary-1", "notary", time.Minute)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "notary-1", claims.Subject)
	assert.Equal(t, "notary", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	service := NewService("test-signing-key", "deedflow")

	token, err := service.GenerateToken("notary-1", "notary", -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestForeignKeyRejected(t *testing.T) {
	issuer := NewService("key-a", "deedflow")
	validator := NewService("key-b", "deedflow")

	token, err := issuer.GenerateToken("notary-1", "notary", time.Minute)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestGarbageTokenRejected(t *testing.T) {
	service := NewService("test-signing-key", "deedflow")
	_, err := service.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
