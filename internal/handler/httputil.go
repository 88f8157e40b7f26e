// Package handler holds the plain-JSON HTTP handlers behind the gateway mux.
// Success bodies carry success:true plus the payload; failures carry
// success:false, a human message and an optional error detail.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"siteforge/internal/archive"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handler: write response: %v", err)
	}
}

// writeFailure writes the failure envelope. detail is omitted when empty so
// validation errors stay a clean two-field body.
func writeFailure(w http.ResponseWriter, code int, message, detail string) {
	body := map[string]any{
		"success": false,
		"message": message,
	}
	if detail != "" {
		body["error"] = detail
	}
	writeJSON(w, code, body)
}

// writeArchiveError maps archive sentinels onto the wire: unknown projects
// and files are 404, anything the read guard refused is 403.
func writeArchiveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "not found", "")
	case errors.Is(err, archive.ErrForbidden):
		writeFailure(w, http.StatusForbidden, "access denied", "")
	default:
		writeFailure(w, http.StatusInternalServerError, "archive read failed", err.Error())
	}
}
