package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/aggregate"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/types"
)

// TeamSource is the manager-scoped slice of the core API
type TeamSource interface {
	ManagerReports(ctx context.Context, token string, from, to time.Time, membershipID string) ([]types.ReportRecord, error)
	ManagerAgents(ctx context.Context, token string) ([]types.AgentProfile, error)
}

// TeamHandler serves manager-only team views. Authorization is
// enforced upstream: the core API rejects non-manager tokens on these
// endpoints, and the gateway passes that rejection through.
type TeamHandler struct {
	source TeamSource
	logger zerolog.Logger
	now    func() time.Time
}

func NewTeamHandler(source TeamSource, logger zerolog.Logger) *TeamHandler {
	return &TeamHandler{
		source: source,
		logger: logger.With().Str("component", "team_handler").Logger(),
		now:    time.Now,
	}
}

// GetTopStats handles GET /api/team/top-stats?from=&to=. Missing
// bounds default to the current calendar month.
func (t *TeamHandler) GetTopStats(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please log in to continue."})
		return
	}

	today := t.now().UTC()
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(types.DateLayout, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid 'from' date, expected YYYY-MM-DD."})
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(types.DateLayout, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid 'to' date, expected YYYY-MM-DD."})
			return
		}
		to = parsed
	}
	if to.Before(from) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "'to' must not be before 'from'."})
		return
	}

	records, err := t.source.ManagerReports(r.Context(), token, from, to, r.URL.Query().Get("agent_membership_id"))
	metrics.Get().RecordFetch(err)
	if err != nil {
		writeError(w, t.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate.BuildTopStats(records))
}

// GetRoster handles GET /api/team/agents
func (t *TeamHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please log in to continue."})
		return
	}

	roster, err := t.source.ManagerAgents(r.Context(), token)
	metrics.Get().RecordFetch(err)
	if err != nil {
		writeError(w, t.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
