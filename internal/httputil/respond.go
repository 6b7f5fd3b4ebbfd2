// Package httputil implements the response envelope shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// WriteJSON writes an envelope with the given status.
func WriteJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteData writes a success envelope carrying data.
func WriteData(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// WriteList writes a success envelope carrying a list plus its count.
func WriteList(w http.ResponseWriter, count int, data interface{}) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: data})
}

// WriteError maps err onto the envelope. Structured service errors keep their
// status, code and message; anything else becomes an opaque 500 so internal
// fault detail never reaches the caller.
func WriteError(w http.ResponseWriter, err error) {
	svcErr := apperrors.GetServiceError(err)
	if svcErr == nil {
		svcErr = apperrors.Internal("Internal server error", err)
	}
	WriteJSON(w, svcErr.HTTPStatus, Response{
		Success: false,
		Message: svcErr.Message,
		Errors:  svcErr.Details,
	})
}
