package refresh

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/cache"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/types"
	"github.com/salesway/gateway/internal/websocket"
)

func TestBuildSnapshot(t *testing.T) {
	reports := cache.NewReportCache()
	buffer := cache.NewSubmissionBuffer()
	hub := websocket.NewHub(zerolog.Nop())

	reports.Upsert(types.ReportRecord{
		AgentID: "a1", AgentEmail: "alice@salesway.io",
		ReportDate: "2024-06-14", Status: types.StatusSubmitted,
		SalesOneCallClose: 2, OutboundDials: 40, ContractValue: 3000,
	})
	reports.Upsert(types.ReportRecord{
		AgentID: "a2", AgentEmail: "bob@salesway.io",
		ReportDate: "2024-06-10", Status: types.StatusSubmitted,
		FollowupSales: 1, OutboundDials: 15,
	})

	r := NewRefresher(reports, buffer, hub, time.Second, zerolog.Nop())
	r.now = func() time.Time {
		return time.Date(2024, time.June, 14, 15, 30, 0, 0, time.UTC)
	}

	snapshot, err := r.BuildSnapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Type != "team_snapshot" || !snapshot.ManagerOnly {
		t.Errorf("unexpected frame header: %+v", snapshot)
	}
	if len(snapshot.Daily) != 7 {
		t.Errorf("expected 7 daily buckets, got %d", len(snapshot.Daily))
	}
	if snapshot.Daily[6].Period != "Today" {
		t.Errorf("expected last daily bucket to be Today, got %q", snapshot.Daily[6].Period)
	}
	if snapshot.Daily[6].Sales != 2 {
		t.Errorf("expected today's sales 2, got %d", snapshot.Daily[6].Sales)
	}
	// June has 30 days: ceil(30/7) = 5 week buckets
	if len(snapshot.Weekly) != 5 {
		t.Errorf("expected 5 weekly buckets, got %d", len(snapshot.Weekly))
	}
	if len(snapshot.Monthly) != 12 {
		t.Errorf("expected 12 monthly buckets, got %d", len(snapshot.Monthly))
	}
	if snapshot.TopStats == nil || snapshot.TopStats.Calls.Email != "alice@salesway.io" {
		t.Errorf("unexpected leaderboard: %+v", snapshot.TopStats)
	}
	if snapshot.AgentCount != 2 {
		t.Errorf("expected 2 agents, got %d", snapshot.AgentCount)
	}
}

func TestCycleKeepsSubmissionsBufferedWithoutClients(t *testing.T) {
	reports := cache.NewReportCache()
	buffer := cache.NewSubmissionBuffer()
	hub := websocket.NewHub(zerolog.Nop())

	record := types.ReportRecord{
		AgentID: "a1", AgentEmail: "alice@salesway.io",
		ReportDate: "2024-06-14", Status: types.StatusSubmitted,
		SalesOneCallClose: 1,
	}
	reports.Upsert(record)
	buffer.Add(record)

	r := NewRefresher(reports, buffer, hub, time.Second, zerolog.Nop())
	r.cycle(metrics.Get())

	// No dashboard was connected, so the submission must survive the
	// cycle and trigger a broadcast once a client shows up
	if buffer.Size() != 1 {
		t.Errorf("expected submission still buffered, got %d pending", buffer.Size())
	}
}
