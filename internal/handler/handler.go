package handler

import (
	"encoding/json"
	"net/http"

	"whatsapp-order-bot/internal/middleware"
	"whatsapp-order-bot/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.GetRequestID(r.Context())
	logger.Error().
		Str("request_id", requestID).
		Str("error", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message, CorrelationID: requestID})
}
