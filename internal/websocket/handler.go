package websocket

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/config"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now
		// TODO: Implement proper origin checking based on config
		return true
	},
}

// RoleResolver resolves the connecting user's role from their token
type RoleResolver interface {
	Resolve(ctx context.Context, token string) types.Role
}

// Handler handles WebSocket upgrade requests
type Handler struct {
	hub    *Hub
	config *config.Config
	roles  RoleResolver
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, cfg *config.Config, roles RoleResolver, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		config: cfg,
		roles:  roles,
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
		return
	}

	// Role is probed against the core API, never trusted from the client
	role := h.roles.Resolve(r.Context(), token)

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	// Create new client
	client := NewClient(h.hub, conn, h.config, h.logger, role)

	// Register client with hub
	h.hub.register <- client
	metrics.Get().RecordWebSocketConnect()

	// Start client pumps
	client.Start()
}
