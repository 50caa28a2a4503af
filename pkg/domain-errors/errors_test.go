package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodePropagatesThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "transaction txn_1 not found")
	wrapped := fmt.Errorf("handling request: %w", base)

	assert.True(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(wrapped, CodeInvalidState))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "save transaction")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save transaction: connection refused", err.Error())
}

func TestCodeOfUncodedError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:     http.StatusNotFound,
		CodeInvalidState: http.StatusBadRequest,
		CodeInvalidInput: http.StatusBadRequest,
		CodeConflict:     http.StatusConflict,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeTimeout:      http.StatusGatewayTimeout,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
