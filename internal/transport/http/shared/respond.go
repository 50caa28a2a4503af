// Package shared centralizes JSON response envelopes and domain error
// translation so every handler speaks the same dialect.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "deedflow/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a coded domain error to its HTTP status. The message
// text passes through verbatim; it is part of the operation contract.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := err.Error()

	var de *dErrors.DomainError
	if !errors.As(err, &de) {
		// Uncoded errors never leak internals to callers.
		message = "internal error"
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}
