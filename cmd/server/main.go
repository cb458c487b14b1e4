package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/salesway/gateway/internal/api"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/cache"
	"github.com/salesway/gateway/internal/config"
	"github.com/salesway/gateway/internal/event"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/onboarding"
	"github.com/salesway/gateway/internal/refresh"
	"github.com/salesway/gateway/internal/salesapi"
	"github.com/salesway/gateway/internal/storage"
	"github.com/salesway/gateway/internal/websocket"
	"github.com/salesway/gateway/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("core_api", cfg.CoreAPIURL).
		Str("log_level", cfg.LogLevel).
		Msg("starting salesway gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Durable onboarding state: DynamoDB when configured, otherwise
	// in-memory (fine for a single instance, lost on restart)
	store := newStateStore(ctx, log.Logger)
	session := storage.NewMemoryStore()

	// Core API client and auth plumbing
	client := salesapi.NewClient(cfg.CoreAPIURL)
	verifier, err := auth.NewGoogleVerifier(cfg.GoogleJWKSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize google token verifier")
	}
	roles := auth.NewRoleResolver(client, log.Logger)

	// Onboarding flow controller
	controller := onboarding.NewController(client, verifier, roles, store, session, log.Logger)

	// Live team snapshot pipeline
	reports := cache.NewReportCache()
	buffer := cache.NewSubmissionBuffer()
	receiver := event.NewReceiver(reports, buffer, log.Logger)

	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	refresher := refresh.NewRefresher(reports, buffer, hub, cfg.RefreshInterval, log.Logger)
	go refresher.Start(ctx)

	// HTTP handlers
	wsHandler := websocket.NewHandler(hub, cfg, roles, log.Logger)
	historyHandler := api.NewHistoryHandler(client, log.Logger)
	teamHandler := api.NewTeamHandler(client, log.Logger)
	profileHandler := api.NewProfileHandler(client, log.Logger)
	onboardingHandler := api.NewOnboardingHandler(controller, log.Logger)

	// Create router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes
	r.Get("/health", healthHandler)
	r.Post("/api/auth/login", onboardingHandler.Login)
	r.Post("/api/auth/invite", onboardingHandler.AcceptInvite)
	r.Route("/api/onboarding/{attemptID}", func(r chi.Router) {
		r.Get("/step", onboardingHandler.GetStep)
		r.Post("/plan", onboardingHandler.SelectPlan)
		r.Post("/account", onboardingHandler.SubmitAccount)
		r.Post("/account/google", onboardingHandler.SubmitGoogleAccount)
		r.Post("/company", onboardingHandler.CompleteCompany)
		r.Delete("/", onboardingHandler.Abandon)
	})

	// Internal routes (core API webhook and operational visibility,
	// not exposed past the ingress)
	r.Route("/internal", func(r chi.Router) {
		r.Post("/report-event", receiver.HandleReportEvent)
		r.Get("/report-event/stats", receiver.GetStats)
		r.Get("/metrics", metrics.Get().Handler())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/api/history/overview", historyHandler.GetOverview)
		r.Get("/api/team/top-stats", teamHandler.GetTopStats)
		r.Get("/api/team/agents", teamHandler.GetRoster)
		r.Get("/api/me", profileHandler.GetMe)
		r.Patch("/api/me", profileHandler.PatchMe)
		r.Get("/ws", wsHandler.ServeHTTP)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newStateStore picks the durable state backend from DYNAMO_MODE
func newStateStore(ctx context.Context, logger zerolog.Logger) storage.StateStore {
	dynCfg := storage.LoadDynamoConfig()
	if dynCfg.Mode == storage.DynamoModeNone {
		logger.Info().Msg("dynamodb disabled, onboarding state is in-memory")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewDynamoDBStore(ctx, dynCfg, logger)
	if err != nil {
		log.Fatal().Err(err).Str("mode", string(dynCfg.Mode)).Msg("failed to connect to dynamodb")
	}
	logger.Info().Str("mode", string(dynCfg.Mode)).Str("table", dynCfg.StateTable).Msg("dynamodb state store ready")
	return store
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"salesway-gateway"}`)
}
