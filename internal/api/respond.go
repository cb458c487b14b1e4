package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/salesapi"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError surfaces a core API failure to the presentation layer:
// the upstream status is passed through with user-facing guidance,
// and anything that is not a typed API error becomes a 502.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := salesapi.StatusOf(err)
	if status == 0 {
		logger.Error().Err(err).Msg("core API request failed")
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": salesapi.UserMessage(err)})
}
