// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// MsgInternal replaces the error text of every server error response.
const MsgInternal = "internal error, please try again"

// RespondError logs err and writes {"error": "..."} with the given status code.
// Client errors carry err's text and are logged at Warn. Server errors are
// logged at Error and answer with MsgInternal only.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		RespondJSON(w, status, map[string]string{"error": MsgInternal})
		return
	}
	logger.Warn("request rejected", "status", status, "error", err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}
