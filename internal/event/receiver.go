package event

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/cache"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/types"
)

// Receiver handles report-submitted webhooks from the core API
type Receiver struct {
	reports        *cache.ReportCache
	buffer         *cache.SubmissionBuffer
	logger         zerolog.Logger
	eventsReceived int64
	lastReceived   time.Time
	mu             sync.RWMutex
}

// NewReceiver creates a new webhook receiver
func NewReceiver(reports *cache.ReportCache, buffer *cache.SubmissionBuffer, logger zerolog.Logger) *Receiver {
	return &Receiver{
		reports: reports,
		buffer:  buffer,
		logger:  logger.With().Str("component", "report_events").Logger(),
	}
}

// HandleReportEvent receives one submitted report and folds it into
// the live cache. POST /internal/report-event
func (r *Receiver) HandleReportEvent(w http.ResponseWriter, req *http.Request) {
	m := metrics.Get()

	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var record types.ReportRecord
	if err := json.NewDecoder(req.Body).Decode(&record); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode report event")
		m.RecordSubmissionError()
		http.Error(w, "invalid report event", http.StatusBadRequest)
		return
	}

	m.RecordSubmissionReceived()

	if _, err := record.Date(); err != nil {
		r.logger.Warn().Str("report_date", record.ReportDate).Msg("report event with unparseable date")
		m.RecordSubmissionError()
		http.Error(w, "invalid report date", http.StatusBadRequest)
		return
	}

	if !record.Status.Counts() {
		// Draft saves are noise for the live view
		w.WriteHeader(http.StatusAccepted)
		return
	}

	r.reports.Upsert(record)
	r.buffer.Add(record)
	m.RecordSubmissionProcessed()

	atomic.AddInt64(&r.eventsReceived, 1)
	r.mu.Lock()
	r.lastReceived = time.Now()
	r.mu.Unlock()

	// Log periodically
	count := atomic.LoadInt64(&r.eventsReceived)
	if count%1000 == 0 {
		r.logger.Info().
			Int64("total_received", count).
			Int("cache_size", r.reports.Size()).
			Msg("report events received")
	}

	w.WriteHeader(http.StatusOK)
}

// GetStats returns receiver statistics
func (r *Receiver) GetStats(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	lastReceived := r.lastReceived
	r.mu.RUnlock()

	stats := map[string]interface{}{
		"events_received": atomic.LoadInt64(&r.eventsReceived),
		"last_received":   lastReceived,
		"cache_size":      r.reports.Size(),
		"pending":         r.buffer.Size(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
