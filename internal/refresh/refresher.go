package refresh

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/aggregate"
	"github.com/salesway/gateway/internal/cache"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/types"
	"github.com/salesway/gateway/internal/websocket"
)

// Refresher periodically rebuilds the team-wide dashboard snapshot
// from the live report cache and pushes it to connected clients.
type Refresher struct {
	reports  *cache.ReportCache
	buffer   *cache.SubmissionBuffer
	hub      *websocket.Hub
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRefresher creates a new refresher
func NewRefresher(reports *cache.ReportCache, buffer *cache.SubmissionBuffer, hub *websocket.Hub, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		reports:  reports,
		buffer:   buffer,
		hub:      hub,
		interval: interval,
		logger:   logger.With().Str("component", "refresher").Logger(),
		now:      time.Now,
	}
}

// Start begins rebuilding and broadcasting snapshots
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	m := metrics.Get()
	r.logger.Info().Dur("interval", r.interval).Msg("refresher started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresher stopped")
			return

		case <-ticker.C:
			r.cycle(m)
		}
	}
}

// cycle runs one refresh pass: if anything was submitted since the
// last broadcast and someone is listening, rebuild the snapshot and
// push it. With no clients connected the buffer is left untouched so
// the pending submissions still trigger a broadcast once a dashboard
// connects.
func (r *Refresher) cycle(m *metrics.Metrics) {
	cycleStart := time.Now()

	if r.hub.ClientCount() == 0 {
		return
	}

	// Drain submissions that arrived since the last cycle
	pending := r.buffer.GetAndClear()
	if len(pending) == 0 {
		return
	}

	m.UpdateCacheStats(r.reports.Size(), r.reports.AgentCount())

	snapshot, err := r.BuildSnapshot()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to build snapshot")
		m.RecordRefreshError()
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to marshal snapshot")
		m.RecordRefreshError()
		return
	}

	r.hub.Broadcast(data)
	m.RecordRefreshCycle(time.Since(cycleStart), 1)

	r.logger.Debug().
		Int("new_submissions", len(pending)).
		Int("cached_reports", r.reports.Size()).
		Int("clients", r.hub.ClientCount()).
		Msg("snapshot broadcasted")
}

// BuildSnapshot aggregates the cached team records into the live
// dashboard frame: seven daily buckets, the current month by week,
// the current year by month, and the leaderboard.
func (r *Refresher) BuildSnapshot() (types.SnapshotMessage, error) {
	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	records := r.reports.Records()

	daily, err := aggregate.BuildDailySeries(records, today.AddDate(0, 0, -6), today, today)
	if err != nil {
		return types.SnapshotMessage{}, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	weekly, err := aggregate.BuildWeeklySeries(records, monthStart, monthEnd)
	if err != nil {
		return types.SnapshotMessage{}, err
	}

	monthly := aggregate.BuildMonthlySeries(records, now.Year())
	topStats := aggregate.BuildTopStats(records)

	return types.SnapshotMessage{
		Type:        "team_snapshot",
		Timestamp:   now,
		ManagerOnly: true,
		Daily:       daily,
		Weekly:      weekly,
		Monthly:     monthly,
		TopStats:    &topStats,
		AgentCount:  r.reports.AgentCount(),
	}, nil
}
