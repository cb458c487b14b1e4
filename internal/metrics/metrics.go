package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Report submission metrics
	SubmissionsReceivedTotal  int64
	SubmissionsProcessedTotal int64
	SubmissionErrors          int64

	// Core API fetch metrics
	FetchesTotal     int64
	FetchErrorsTotal int64

	// Auth metrics
	LoginsTotal        int64
	SignupsTotal       int64
	AuthFailuresTotal  int64
	RoleProbesManager  int64
	RoleProbesAgent    int64

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	WebSocketMessagesTotal       int64
	WebSocketErrorsTotal         int64
	activeConnections            int64

	// Snapshot refresh metrics
	RefreshCyclesTotal     int64
	SnapshotsBroadcast     int64
	RefreshErrorsTotal     int64
	lastRefreshDuration    time.Duration
	cachedReports          int
	cachedAgents           int

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			startTime: time.Now(),
		}
	})
	return instance
}

// RecordSubmissionReceived increments the submissions received counter
func (m *Metrics) RecordSubmissionReceived() {
	m.mu.Lock()
	m.SubmissionsReceivedTotal++
	m.mu.Unlock()
}

// RecordSubmissionProcessed increments the submissions processed counter
func (m *Metrics) RecordSubmissionProcessed() {
	m.mu.Lock()
	m.SubmissionsProcessedTotal++
	m.mu.Unlock()
}

// RecordSubmissionError increments the submission error counter
func (m *Metrics) RecordSubmissionError() {
	m.mu.Lock()
	m.SubmissionErrors++
	m.mu.Unlock()
}

// RecordFetch records one core API window fetch
func (m *Metrics) RecordFetch(err error) {
	m.mu.Lock()
	m.FetchesTotal++
	if err != nil {
		m.FetchErrorsTotal++
	}
	m.mu.Unlock()
}

// RecordLogin increments the login counter
func (m *Metrics) RecordLogin() {
	m.mu.Lock()
	m.LoginsTotal++
	m.mu.Unlock()
}

// RecordSignup increments the signup counter
func (m *Metrics) RecordSignup() {
	m.mu.Lock()
	m.SignupsTotal++
	m.mu.Unlock()
}

// RecordAuthFailure increments the auth failure counter
func (m *Metrics) RecordAuthFailure() {
	m.mu.Lock()
	m.AuthFailuresTotal++
	m.mu.Unlock()
}

// RecordRoleProbe records one role resolution outcome
func (m *Metrics) RecordRoleProbe(manager bool) {
	m.mu.Lock()
	if manager {
		m.RoleProbesManager++
	} else {
		m.RoleProbesAgent++
	}
	m.mu.Unlock()
}

// RecordWebSocketConnect increments connection counters
func (m *Metrics) RecordWebSocketConnect() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnect increments disconnection counter
func (m *Metrics) RecordWebSocketDisconnect() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordWebSocketMessage increments message counter
func (m *Metrics) RecordWebSocketMessage() {
	m.mu.Lock()
	m.WebSocketMessagesTotal++
	m.mu.Unlock()
}

// RecordWebSocketError increments WebSocket error counter
func (m *Metrics) RecordWebSocketError() {
	m.mu.Lock()
	m.WebSocketErrorsTotal++
	m.mu.Unlock()
}

// RecordRefreshCycle records one snapshot refresh cycle
func (m *Metrics) RecordRefreshCycle(duration time.Duration, snapshots int) {
	m.mu.Lock()
	m.RefreshCyclesTotal++
	m.SnapshotsBroadcast += int64(snapshots)
	m.lastRefreshDuration = duration
	m.mu.Unlock()
}

// RecordRefreshError increments the refresh error counter
func (m *Metrics) RecordRefreshError() {
	m.mu.Lock()
	m.RefreshErrorsTotal++
	m.mu.Unlock()
}

// UpdateCacheStats updates live report cache gauges
func (m *Metrics) UpdateCacheStats(reports, agents int) {
	m.mu.Lock()
	m.cachedReports = reports
	m.cachedAgents = agents
	m.mu.Unlock()
}

// GetActiveConnections returns current WebSocket connections
func (m *Metrics) GetActiveConnections() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeConnections
}

// Handler returns an HTTP handler for the /internal/metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}) {
			switch v := value.(type) {
			case int:
				w.Write([]byte(name + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		// System metrics
		write("salesway_uptime_seconds", time.Since(m.startTime).Seconds())

		// Submission metrics
		write("salesway_submissions_received_total", m.SubmissionsReceivedTotal)
		write("salesway_submissions_processed_total", m.SubmissionsProcessedTotal)
		write("salesway_submission_errors_total", m.SubmissionErrors)

		// Core API fetch metrics
		write("salesway_core_api_fetches_total", m.FetchesTotal)
		write("salesway_core_api_fetch_errors_total", m.FetchErrorsTotal)

		// Auth metrics
		write("salesway_logins_total", m.LoginsTotal)
		write("salesway_signups_total", m.SignupsTotal)
		write("salesway_auth_failures_total", m.AuthFailuresTotal)
		write("salesway_role_probes_manager_total", m.RoleProbesManager)
		write("salesway_role_probes_agent_total", m.RoleProbesAgent)

		// WebSocket metrics
		write("salesway_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("salesway_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("salesway_websocket_active_connections", m.activeConnections)
		write("salesway_websocket_messages_total", m.WebSocketMessagesTotal)
		write("salesway_websocket_errors_total", m.WebSocketErrorsTotal)

		// Refresh metrics
		write("salesway_refresh_cycles_total", m.RefreshCyclesTotal)
		write("salesway_snapshots_broadcast_total", m.SnapshotsBroadcast)
		write("salesway_refresh_errors_total", m.RefreshErrorsTotal)
		write("salesway_refresh_duration_seconds", m.lastRefreshDuration.Seconds())

		// Cache gauges
		write("salesway_cached_reports", m.cachedReports)
		write("salesway_cached_agents", m.cachedAgents)
	}
}
