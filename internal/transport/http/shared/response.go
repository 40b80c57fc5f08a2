// Package shared holds the response helpers every HTTP handler uses, so all
// endpoints speak the same JSON envelope.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "turnero/pkg/domain-errors"
)

// ErrorBody is the JSON envelope for failed requests.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status. Encoding failures are ignored;
// the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError translates a domain error into its HTTP status and envelope.
// Errors without a domain code are reported as internal without leaking the
// underlying message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := "internal server error"
	var dErr *dErrors.Error
	if errors.As(err, &dErr) && dErr.Code != dErrors.CodeInternal {
		message = dErr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorBody{Error: ErrorDetail{
		Code:    string(code),
		Message: message,
	}})
}
