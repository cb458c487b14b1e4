package aggregate

import (
	"fmt"

	"github.com/salesway/gateway/internal/types"
)

// MetricKey identifies one tracked dashboard metric
type MetricKey string

const (
	MetricSales            MetricKey = "sales"
	MetricCalls            MetricKey = "calls"
	MetricFollowUpSales    MetricKey = "followUpSales"
	MetricOutboundBookings MetricKey = "outboundBookings"
)

// extractors is the single source of truth for deriving metric values
// from a report record. Every series builder and total goes through
// this table so the views cannot drift apart.
var extractors = map[MetricKey]func(types.ReportRecord) int{
	MetricSales: func(r types.ReportRecord) int {
		return r.SalesOneCallClose + r.FollowupSales + r.Upsells
	},
	MetricCalls: func(r types.ReportRecord) int {
		return r.OutboundDials
	},
	MetricFollowUpSales: func(r types.ReportRecord) int {
		return r.FollowupSales
	},
	MetricOutboundBookings: func(r types.ReportRecord) int {
		return r.SalesCallBookedFromOutbound
	},
}

// Extractor returns the derivation function for a metric key. Unknown
// keys are an error at construction time, not a silent zero.
func Extractor(key MetricKey) (func(types.ReportRecord) int, error) {
	fn, ok := extractors[key]
	if !ok {
		return nil, fmt.Errorf("unknown metric key %q", key)
	}
	return fn, nil
}

// bucketValue reads a metric back out of a built bucket
func bucketValue(b types.Bucket, key MetricKey) int {
	switch key {
	case MetricSales:
		return b.Sales
	case MetricCalls:
		return b.Calls
	case MetricFollowUpSales:
		return b.FollowUpSales
	case MetricOutboundBookings:
		return b.OutboundBookings
	}
	return 0
}

// accumulate folds one qualifying record into a bucket
func accumulate(b *types.Bucket, r types.ReportRecord) {
	b.Sales += extractors[MetricSales](r)
	b.Calls += extractors[MetricCalls](r)
	b.FollowUpSales += extractors[MetricFollowUpSales](r)
	b.OutboundBookings += extractors[MetricOutboundBookings](r)
	b.ContractValue += r.ContractValue
}
