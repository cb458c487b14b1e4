package cache

import (
	"sync"

	"github.com/salesway/gateway/internal/types"
)

// ReportCache holds the authoritative team-wide report set for the
// live dashboard: at most one record per (agentID, reportDate), drafts
// never enter. The core API remains the source of truth; this cache
// only feeds the push snapshots between refreshes.
type ReportCache struct {
	records map[string]types.ReportRecord
	mu      sync.RWMutex
}

// NewReportCache creates an empty report cache
func NewReportCache() *ReportCache {
	return &ReportCache{
		records: make(map[string]types.ReportRecord),
	}
}

func recordKey(r types.ReportRecord) string {
	return r.AgentID + "|" + r.ReportDate
}

// Upsert stores a submitted record, replacing any earlier submission
// for the same agent and day. Draft records are ignored.
func (c *ReportCache) Upsert(record types.ReportRecord) {
	if !record.Status.Counts() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[recordKey(record)] = record
}

// Replace swaps the whole cache contents for a freshly fetched set
func (c *ReportCache) Replace(records []types.ReportRecord) {
	fresh := make(map[string]types.ReportRecord, len(records))
	for _, r := range records {
		if !r.Status.Counts() {
			continue
		}
		fresh[recordKey(r)] = r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = fresh
}

// Records returns a snapshot of all cached records
func (c *ReportCache) Records() []types.ReportRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.ReportRecord, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	return out
}

// Size returns the number of cached records
func (c *ReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// AgentCount returns the number of distinct agents in the cache
func (c *ReportCache) AgentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	agents := make(map[string]struct{})
	for _, r := range c.records {
		agents[r.AgentID] = struct{}{}
	}
	return len(agents)
}
