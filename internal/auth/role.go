package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/salesapi"
	"github.com/salesway/gateway/internal/types"
)

// RosterProber is the one call role resolution needs from the core API
type RosterProber interface {
	ManagerAgents(ctx context.Context, token string) ([]types.AgentProfile, error)
}

// RoleResolver infers a user's role from the manager roster endpoint.
// Login does not return a role, so the gateway probes a manager-only
// endpoint instead: success means manager, rejection means agent. This
// costs one extra round trip per authentication but avoids a dedicated
// whoami-role endpoint.
type RoleResolver struct {
	prober RosterProber
	logger zerolog.Logger
}

// NewRoleResolver creates a RoleResolver backed by the given prober
func NewRoleResolver(prober RosterProber, logger zerolog.Logger) *RoleResolver {
	return &RoleResolver{
		prober: prober,
		logger: logger.With().Str("component", "role_resolver").Logger(),
	}
}

// Resolve probes the manager roster with the given token. A 2xx
// resolves to MANAGER; 401/403 to AGENT. Any other failure also
// defaults to AGENT rather than surfacing an error, so authentication
// never breaks on a flaky probe.
func (r *RoleResolver) Resolve(ctx context.Context, token string) types.Role {
	_, err := r.prober.ManagerAgents(ctx, token)
	if err == nil {
		metrics.Get().RecordRoleProbe(true)
		return types.RoleManager
	}

	switch salesapi.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
	default:
		r.logger.Warn().Err(err).Msg("role probe failed, defaulting to agent")
	}
	metrics.Get().RecordRoleProbe(false)
	return types.RoleAgent
}
