package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/aggregate"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/types"
)

// ReportSource is the slice of the core API the history view reads
type ReportSource interface {
	RecentDaily(ctx context.Context, token string, days int) ([]types.ReportRecord, error)
	CurrentMonth(ctx context.Context, token string) ([]types.ReportRecord, error)
	Range(ctx context.Context, token string, from, to time.Time) ([]types.ReportRecord, error)
}

// HistoryHandler serves the aggregated performance history views
type HistoryHandler struct {
	source ReportSource
	logger zerolog.Logger
	now    func() time.Time
}

func NewHistoryHandler(source ReportSource, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		source: source,
		logger: logger.With().Str("component", "history_handler").Logger(),
		now:    time.Now,
	}
}

// WindowView is one aggregated time window of the overview response
type WindowView struct {
	Granularity types.Granularity                    `json:"granularity"`
	Buckets     []types.Bucket                       `json:"buckets"`
	Totals      map[aggregate.MetricKey]types.Totals `json:"totals"`
}

// OverviewResponse carries all four dashboard windows in one payload
type OverviewResponse struct {
	Last7Days    WindowView `json:"last7Days"`
	CurrentMonth WindowView `json:"currentMonth"`
	CurrentYear  WindowView `json:"currentYear"`
	PreviousYear WindowView `json:"previousYear"`
}

// metricKeys is the fixed set every window reports totals for
var metricKeys = []aggregate.MetricKey{
	aggregate.MetricSales,
	aggregate.MetricCalls,
	aggregate.MetricFollowUpSales,
	aggregate.MetricOutboundBookings,
}

// GetOverview handles GET /api/history/overview. The four upstream
// windows are independent, so they are fetched concurrently; the first
// fetch error fails the whole request since a partial overview would
// render misleading charts.
func (h *HistoryHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please log in to continue."})
		return
	}

	today := h.now().UTC()
	year := today.Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	prevEnd := time.Date(year-1, time.December, 31, 0, 0, 0, 0, time.UTC)

	var (
		wg                                           sync.WaitGroup
		recent, month, current, previous             []types.ReportRecord
		errRecent, errMonth, errCurrent, errPrevious error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		recent, errRecent = h.source.RecentDaily(r.Context(), token, 7)
	}()
	go func() {
		defer wg.Done()
		month, errMonth = h.source.CurrentMonth(r.Context(), token)
	}()
	go func() {
		defer wg.Done()
		current, errCurrent = h.source.Range(r.Context(), token, yearStart, today)
	}()
	go func() {
		defer wg.Done()
		previous, errPrevious = h.source.Range(r.Context(), token, prevStart, prevEnd)
	}()
	wg.Wait()

	for _, err := range []error{errRecent, errMonth, errCurrent, errPrevious} {
		metrics.Get().RecordFetch(err)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	monthStart := time.Date(year, today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	daily, err := aggregate.BuildDailySeries(recent, today.AddDate(0, 0, -6), today, today)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	weekly, err := aggregate.BuildWeeklySeries(month, monthStart, monthEnd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := OverviewResponse{
		Last7Days:    windowView(types.GranularityDay, daily),
		CurrentMonth: windowView(types.GranularityWeek, weekly),
		CurrentYear:  windowView(types.GranularityMonth, aggregate.BuildMonthlySeries(current, year)),
		PreviousYear: windowView(types.GranularityMonth, aggregate.BuildMonthlySeries(previous, year-1)),
	}
	writeJSON(w, http.StatusOK, resp)
}

// windowView pairs a bucket series with its per-metric totals
func windowView(g types.Granularity, buckets []types.Bucket) WindowView {
	view := WindowView{
		Granularity: g,
		Buckets:     buckets,
		Totals:      make(map[aggregate.MetricKey]types.Totals, len(metricKeys)),
	}
	for _, key := range metricKeys {
		// keys come from the fixed table above, so this cannot fail
		totals, _ := aggregate.CalculateTotals(buckets, key)
		view.Totals[key] = totals
	}
	return view
}
