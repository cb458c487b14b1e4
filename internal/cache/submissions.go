package cache

import (
	"sync"

	"github.com/salesway/gateway/internal/types"
)

// SubmissionBuffer collects report submissions between refresh cycles.
// The refresher drains it each cycle; a non-empty drain marks the live
// snapshot dirty.
type SubmissionBuffer struct {
	submissions []types.ReportRecord
	mu          sync.RWMutex
}

// NewSubmissionBuffer creates an empty submission buffer
func NewSubmissionBuffer() *SubmissionBuffer {
	return &SubmissionBuffer{
		submissions: make([]types.ReportRecord, 0, 256),
	}
}

// Add appends a submission to the buffer
func (b *SubmissionBuffer) Add(record types.ReportRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submissions = append(b.submissions, record)
}

// GetAndClear returns all buffered submissions and clears the buffer
func (b *SubmissionBuffer) GetAndClear() []types.ReportRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	submissions := b.submissions
	b.submissions = make([]types.ReportRecord, 0, 256) // pre-allocate for next cycle
	return submissions
}

// Size returns the current number of buffered submissions
func (b *SubmissionBuffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.submissions)
}
