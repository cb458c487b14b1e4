package salesapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/salesway/gateway/internal/types"
)

// RecentDaily fetches the agent's reports for the last n days.
// GET /reports/daily/recent?days=n
func (c *Client) RecentDaily(ctx context.Context, token string, days int) ([]types.ReportRecord, error) {
	var records []types.ReportRecord
	path := fmt.Sprintf("/reports/daily/recent?days=%d", days)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CurrentMonth fetches the agent's reports for the current calendar month.
// GET /reports/daily/current-month
func (c *Client) CurrentMonth(ctx context.Context, token string) ([]types.ReportRecord, error) {
	var records []types.ReportRecord
	if err := c.do(ctx, http.MethodGet, "/reports/daily/current-month", token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Range fetches the agent's reports for an inclusive date range.
// GET /reports/daily?from=YYYY-MM-DD&to=YYYY-MM-DD
func (c *Client) Range(ctx context.Context, token string, from, to time.Time) ([]types.ReportRecord, error) {
	var records []types.ReportRecord
	path := fmt.Sprintf("/reports/daily?from=%s&to=%s",
		from.Format(types.DateLayout), to.Format(types.DateLayout))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ManagerReports fetches team-wide reports, optionally narrowed to one
// agent membership.
// GET /manager/reports?from=...&to=...&agent_membership_id=...
func (c *Client) ManagerReports(ctx context.Context, token string, from, to time.Time, membershipID string) ([]types.ReportRecord, error) {
	q := url.Values{}
	q.Set("from", from.Format(types.DateLayout))
	q.Set("to", to.Format(types.DateLayout))
	if membershipID != "" {
		q.Set("agent_membership_id", membershipID)
	}

	var records []types.ReportRecord
	if err := c.do(ctx, http.MethodGet, "/manager/reports?"+q.Encode(), token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ManagerAgents fetches the manager's team roster. The endpoint is
// manager-scoped, which makes it double as the role probe: a 2xx means
// the caller is a manager.
// GET /manager/overview/agents
func (c *Client) ManagerAgents(ctx context.Context, token string) ([]types.AgentProfile, error) {
	var roster []types.AgentProfile
	if err := c.do(ctx, http.MethodGet, "/manager/overview/agents", token, nil, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}
