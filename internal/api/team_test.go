package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/salesapi"
	"github.com/salesway/gateway/internal/types"
)

type fakeTeamSource struct {
	records   []types.ReportRecord
	roster    []types.AgentProfile
	err       error
	gotFrom   string
	gotTo     string
	gotMember string
}

func (f *fakeTeamSource) ManagerReports(ctx context.Context, token string, from, to time.Time, membershipID string) ([]types.ReportRecord, error) {
	f.gotFrom = from.Format(types.DateLayout)
	f.gotTo = to.Format(types.DateLayout)
	f.gotMember = membershipID
	return f.records, f.err
}

func (f *fakeTeamSource) ManagerAgents(ctx context.Context, token string) ([]types.AgentProfile, error) {
	return f.roster, f.err
}

func teamRequest(t *testing.T, handler http.HandlerFunc, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer manager-token")
	rec := httptest.NewRecorder()
	auth.Middleware(handler).ServeHTTP(rec, req)
	return rec
}

func TestGetTopStatsForwardsRangeAndAggregates(t *testing.T) {
	source := &fakeTeamSource{
		records: []types.ReportRecord{
			{AgentID: "a1", AgentEmail: "alice@example.com", ReportDate: "2024-06-03", Status: types.StatusSubmitted, SalesOneCallClose: 5},
			{AgentID: "a2", AgentEmail: "bob@example.com", ReportDate: "2024-06-03", Status: types.StatusSubmitted, OutboundDials: 40},
		},
	}
	h := NewTeamHandler(source, zerolog.Nop())

	rec := teamRequest(t, h.GetTopStats, "/api/team/top-stats?from=2024-06-01&to=2024-06-30&agent_membership_id=m-7")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if source.gotFrom != "2024-06-01" || source.gotTo != "2024-06-30" {
		t.Errorf("range not forwarded, got from=%s to=%s", source.gotFrom, source.gotTo)
	}
	if source.gotMember != "m-7" {
		t.Errorf("membership filter not forwarded, got %q", source.gotMember)
	}

	var stats types.TopStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Sales.Email != "alice@example.com" || stats.Sales.Value != 5 {
		t.Errorf("unexpected sales leader: %+v", stats.Sales)
	}
	if stats.Calls.Email != "bob@example.com" || stats.Calls.Value != 40 {
		t.Errorf("unexpected calls leader: %+v", stats.Calls)
	}
}

func TestGetTopStatsDefaultsToCurrentMonth(t *testing.T) {
	source := &fakeTeamSource{}
	h := NewTeamHandler(source, zerolog.Nop())
	h.now = func() time.Time { return time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC) }

	rec := teamRequest(t, h.GetTopStats, "/api/team/top-stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if source.gotFrom != "2024-02-01" || source.gotTo != "2024-02-29" {
		t.Errorf("expected leap-February defaults, got from=%s to=%s", source.gotFrom, source.gotTo)
	}
}

func TestGetTopStatsRejectsBadDates(t *testing.T) {
	h := NewTeamHandler(&fakeTeamSource{}, zerolog.Nop())

	cases := []struct {
		name string
		url  string
	}{
		{"malformed from", "/api/team/top-stats?from=June-1"},
		{"malformed to", "/api/team/top-stats?to=2024-13-99"},
		{"inverted range", "/api/team/top-stats?from=2024-06-30&to=2024-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := teamRequest(t, h.GetTopStats, tc.url)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetTopStatsPassesForbiddenThrough(t *testing.T) {
	source := &fakeTeamSource{err: &salesapi.APIError{StatusCode: http.StatusForbidden, Body: "not a manager"}}
	h := NewTeamHandler(source, zerolog.Nop())

	rec := teamRequest(t, h.GetTopStats, "/api/team/top-stats")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 passthrough, got %d", rec.Code)
	}
}

func TestGetRosterReturnsAgents(t *testing.T) {
	source := &fakeTeamSource{roster: []types.AgentProfile{{MembershipID: "m-1", Email: "alice@example.com"}}}
	h := NewTeamHandler(source, zerolog.Nop())

	rec := teamRequest(t, h.GetRoster, "/api/team/agents")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var roster []types.AgentProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &roster); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(roster) != 1 || roster[0].MembershipID != "m-1" {
		t.Errorf("unexpected roster: %+v", roster)
	}
}
