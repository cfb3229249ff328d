package httputil

import (
	"encoding/json"
	"net/http"
)

// MaxBodyBytes caps the size of request bodies accepted by DecodeJSON.
const MaxBodyBytes = 1 << 20 // 1 MiB

// ErrorPayload is the uniform error body returned on 4xx/5xx responses.
type ErrorPayload struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as JSON onto w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error payload with the given status code.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorPayload{Error: msg})
}

// DecodeJSON reads and decodes a JSON request body into v, bounding the read
// at MaxBodyBytes. The caller maps a non-nil error to HTTP 400.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
