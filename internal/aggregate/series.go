package aggregate

import (
	"fmt"
	"time"

	"github.com/salesway/gateway/internal/types"
)

// day is 24 hours; all bucketing uses UTC day boundaries so a record
// never drifts into a neighboring bucket across timezones.
const day = 24 * time.Hour

// truncateDay normalizes a time to its UTC calendar day
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole days from a to b (a <= b)
func daysBetween(a, b time.Time) int {
	return int(truncateDay(b).Sub(truncateDay(a)) / day)
}

// dailyLabel renders a bucket label relative to the reference day:
// "Today", "Yesterday", "N days ago".
func dailyLabel(bucketDay, today time.Time) string {
	switch diff := daysBetween(bucketDay, today); diff {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", diff)
	}
}

// BuildDailySeries buckets records into one bucket per calendar day
// over the inclusive [windowStart, windowEnd] range. Days with no
// qualifying record yield zero-valued buckets; the result is always
// contiguous and chronological with exactly rangeDays+1 entries.
// Draft records and records whose date does not parse are skipped.
func BuildDailySeries(records []types.ReportRecord, windowStart, windowEnd, referenceToday time.Time) ([]types.Bucket, error) {
	start := truncateDay(windowStart)
	end := truncateDay(windowEnd)
	if end.Before(start) {
		return nil, fmt.Errorf("window end %s before start %s", end.Format(types.DateLayout), start.Format(types.DateLayout))
	}

	count := daysBetween(start, end) + 1
	buckets := make([]types.Bucket, count)
	index := make(map[string]*types.Bucket, count)

	d := start
	for i := 0; i < count; i++ {
		buckets[i].Period = dailyLabel(d, referenceToday)
		index[d.Format(types.DateLayout)] = &buckets[i]
		d = d.Add(day)
	}

	for _, r := range records {
		if !r.Status.Counts() {
			continue
		}
		b, ok := index[r.ReportDate]
		if !ok {
			// Caller may over-fetch; out-of-range records are dropped
			continue
		}
		accumulate(b, r)
	}

	return buckets, nil
}

// BuildWeeklySeries buckets a calendar month of records into week
// slices: week index is floor((dayOfMonth-1)/7)+1, so "Wk 1" is days
// 1-7, "Wk 5" days 29-31. Records outside [monthStart, monthEnd] are
// excluded even if present in the input.
func BuildWeeklySeries(records []types.ReportRecord, monthStart, monthEnd time.Time) ([]types.Bucket, error) {
	start := truncateDay(monthStart)
	end := truncateDay(monthEnd)
	if end.Before(start) {
		return nil, fmt.Errorf("month end %s before start %s", end.Format(types.DateLayout), start.Format(types.DateLayout))
	}

	daysInMonth := daysBetween(start, end) + 1
	count := (daysInMonth + 6) / 7
	buckets := make([]types.Bucket, count)
	for i := range buckets {
		buckets[i].Period = fmt.Sprintf("Wk %d", i+1)
	}

	for _, r := range records {
		if !r.Status.Counts() {
			continue
		}
		date, err := r.Date()
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		week := (date.Day()-1)/7 + 1
		if week < 1 || week > count {
			continue
		}
		accumulate(&buckets[week-1], r)
	}

	return buckets, nil
}

// BuildMonthlySeries buckets a year of records into exactly 12 monthly
// buckets (Jan through Dec), regardless of how sparse the data is.
// Records from other years are excluded.
func BuildMonthlySeries(records []types.ReportRecord, year int) []types.Bucket {
	buckets := make([]types.Bucket, 12)
	for i := range buckets {
		buckets[i].Period = time.Month(i + 1).String()[:3]
	}

	for _, r := range records {
		if !r.Status.Counts() {
			continue
		}
		date, err := r.Date()
		if err != nil {
			continue
		}
		if date.Year() != year {
			continue
		}
		accumulate(&buckets[int(date.Month())-1], r)
	}

	return buckets
}

// CalculateTotals sums one metric across a bucket series. TotalValue
// carries the summed contract value and is only meaningful for the
// sales metric; it is zero for every other key. An empty series yields
// a zero average, never a division by zero.
func CalculateTotals(buckets []types.Bucket, key MetricKey) (types.Totals, error) {
	if _, err := Extractor(key); err != nil {
		return types.Totals{}, err
	}

	var totals types.Totals
	for _, b := range buckets {
		totals.TotalUnits += bucketValue(b, key)
		if key == MetricSales {
			totals.TotalValue += b.ContractValue
		}
	}
	if len(buckets) > 0 {
		totals.AverageUnits = float64(totals.TotalUnits) / float64(len(buckets))
	}
	return totals, nil
}
