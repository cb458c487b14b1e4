package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/salesapi"
)

// ProfileSource is the profile slice of the core API
type ProfileSource interface {
	GetMe(ctx context.Context, token string) (salesapi.Profile, error)
	PatchMe(ctx context.Context, token string, fields map[string]string) error
}

// ProfileHandler passes the caller's own profile through the gateway
type ProfileHandler struct {
	source ProfileSource
	logger zerolog.Logger
}

func NewProfileHandler(source ProfileSource, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		source: source,
		logger: logger.With().Str("component", "profile_handler").Logger(),
	}
}

// GetMe handles GET /api/me
func (p *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please log in to continue."})
		return
	}

	profile, err := p.source.GetMe(r.Context(), token)
	if err != nil {
		writeError(w, p.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// PatchMe handles PATCH /api/me. Only name fields are forwarded; the
// core API owns everything else on the profile.
func (p *ProfileHandler) PatchMe(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please log in to continue."})
		return
	}

	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	fields := map[string]string{}
	if body.FirstName != "" {
		fields["first_name"] = body.FirstName
	}
	if body.LastName != "" {
		fields["last_name"] = body.LastName
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Nothing to update."})
		return
	}

	if err := p.source.PatchMe(r.Context(), token, fields); err != nil {
		writeError(w, p.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
