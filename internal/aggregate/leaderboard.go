package aggregate

import "github.com/salesway/gateway/internal/types"

// agentTotals is one agent's summed metrics for the leaderboard scan
type agentTotals struct {
	email  string
	totals map[MetricKey]int
}

// BuildTopStats groups qualifying records by agent, sums each tracked
// metric per agent, and selects the agent with the strictly greatest
// total per metric. Ties keep the first-encountered agent; an empty
// record collection yields placeholder entries.
func BuildTopStats(records []types.ReportRecord) types.TopStats {
	var order []string
	byAgent := make(map[string]*agentTotals)

	for _, r := range records {
		if !r.Status.Counts() {
			continue
		}
		key := r.AgentID
		if key == "" {
			key = r.AgentEmail
		}
		at, ok := byAgent[key]
		if !ok {
			at = &agentTotals{email: r.AgentEmail, totals: make(map[MetricKey]int)}
			byAgent[key] = at
			order = append(order, key)
		}
		if at.email == "" {
			at.email = r.AgentEmail
		}
		for metric, extract := range extractors {
			at.totals[metric] += extract(r)
		}
	}

	top := func(metric MetricKey) types.TopEntry {
		entry := types.TopEntry{Email: "-"}
		best := -1
		for _, key := range order {
			at := byAgent[key]
			if at.totals[metric] > best {
				best = at.totals[metric]
				entry = types.TopEntry{Email: at.email, Value: at.totals[metric]}
			}
		}
		return entry
	}

	return types.TopStats{
		Sales:            top(MetricSales),
		Calls:            top(MetricCalls),
		FollowUpSales:    top(MetricFollowUpSales),
		OutboundBookings: top(MetricOutboundBookings),
	}
}
