package types

import "time"

// ReportStatus is the lifecycle state of a daily activity report
type ReportStatus string

const (
	StatusDraft         ReportStatus = "DRAFT"
	StatusSubmitted     ReportStatus = "SUBMITTED"
	StatusAutoSubmitted ReportStatus = "AUTO_SUBMITTED"
)

// Counts returns true when records with this status contribute to
// aggregated views. Drafts never count.
func (s ReportStatus) Counts() bool {
	return s == StatusSubmitted || s == StatusAutoSubmitted
}

// DateLayout is the wire format for report dates
const DateLayout = "2006-01-02"

// ReportRecord is one agent's daily activity report as returned by the
// core API. At most one record per (agentId, reportDate) is
// authoritative; the gateway only reads records, it never mutates them.
type ReportRecord struct {
	ReportDate string       `json:"report_date"`
	Status     ReportStatus `json:"status"`
	AgentID    string       `json:"agent_id,omitempty"`
	AgentEmail string       `json:"agent_email,omitempty"`

	OutboundDials               int     `json:"outbound_dials"`
	Pickups                     int     `json:"pickups"`
	Conversations               int     `json:"conversations"`
	SalesCallBookedFromOutbound int     `json:"sales_call_booked_from_outbound"`
	NoShows                     int     `json:"no_shows"`
	Reschedules                 int     `json:"reschedules"`
	Cancellations               int     `json:"cancellations"`
	Deposits                    int     `json:"deposits"`
	SalesOneCallClose           int     `json:"sales_one_call_close"`
	FollowupSales               int     `json:"followup_sales"`
	UpsellConversations         int     `json:"upsell_conversations"`
	Upsells                     int     `json:"upsells"`
	ContractValue               float64 `json:"contract_value"`
	NewCashCollected            float64 `json:"new_cash_collected"`
}

// Date parses the record's report date as a UTC calendar day.
func (r ReportRecord) Date() (time.Time, error) {
	return time.ParseInLocation(DateLayout, r.ReportDate, time.UTC)
}

// Bucket is one labeled time slice of an aggregated series. A series
// over a window is contiguous and exhaustive: days, weeks, or months
// without data appear as zero-valued buckets, never as gaps.
type Bucket struct {
	Period           string  `json:"period"`
	Sales            int     `json:"sales"`
	Calls            int     `json:"calls"`
	FollowUpSales    int     `json:"followUpSales"`
	OutboundBookings int     `json:"outboundBookings"`
	ContractValue    float64 `json:"contractValue"`
}

// Granularity is the bucket time unit of a reporting window
type Granularity string

const (
	GranularityDay   Granularity = "DAY"
	GranularityWeek  Granularity = "WEEK"
	GranularityMonth Granularity = "MONTH"
)

// Totals summarizes one metric across a bucket series
type Totals struct {
	TotalUnits   int     `json:"totalUnits"`
	TotalValue   float64 `json:"totalValue"`
	AverageUnits float64 `json:"averageUnits"`
}

// TopEntry is one leaderboard slot: the agent with the greatest total
// for a metric. Email is "-" when no records were available.
type TopEntry struct {
	Email string `json:"email"`
	Value int    `json:"value"`
}

// TopStats is the per-metric team leaderboard
type TopStats struct {
	Sales            TopEntry `json:"sales"`
	Calls            TopEntry `json:"calls"`
	FollowUpSales    TopEntry `json:"followUpSales"`
	OutboundBookings TopEntry `json:"outboundBookings"`
}
