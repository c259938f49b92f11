package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// SortKey identifies a sortable order field
type SortKey string

// Sortable order fields
const (
	SortKeyOrderID   SortKey = "order_id"
	SortKeyCreatedAt SortKey = "created_at"
	SortKeyProduct   SortKey = "product"
	SortKeyQuantity  SortKey = "quantity"
	SortKeyAmount    SortKey = "amount"
)

// Valid reports whether the key names a sortable field
func (k SortKey) Valid() bool {
	switch k {
	case SortKeyOrderID, SortKeyCreatedAt, SortKeyProduct, SortKeyQuantity, SortKeyAmount:
		return true
	}
	return false
}

// SortDirection is the order applied to the active sort key
type SortDirection string

// Sort directions
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortDirective is the active sort key and direction for the tabular view.
// Exactly one directive is active at a time.
type SortDirective struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSort returns the directive used when none was requested
func DefaultSort() SortDirective {
	return SortDirective{Key: SortKeyCreatedAt, Direction: Descending}
}

// NextSort applies the sort toggle rule: requesting the active key flips its
// direction, requesting any other key switches to it ascending.
func NextSort(active SortDirective, requested SortKey) SortDirective {
	if active.Key == requested && active.Direction == Ascending {
		return SortDirective{Key: requested, Direction: Descending}
	}
	return SortDirective{Key: requested, Direction: Ascending}
}

// DateRange is an optional inclusive date-only filter. The end bound covers
// the full calendar day. Both bounds nil means no filtering.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Record is one order as it comes off the store, with the loosely typed
// fields still raw: created_at as an ISO-8601 string and amount as decimal
// text. The pipeline owns parsing both.
type Record struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	CreatedAt string `json:"created_at"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	Amount    string `json:"amount"`
	Source    string `json:"source"`
}

// Series is a label/value pair sequence for a line chart
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Ranking is a label/value pair sequence for a pie chart
type Ranking struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// MalformedRecord is a record excluded from every derived view because one
// of its raw fields did not parse
type MalformedRecord struct {
	Record Record
	Reason string
}

// Result holds the three derived views plus the records that were excluded
// as malformed
type Result struct {
	Visible     []Record
	Revenue     Series
	TopProducts Ranking
	Malformed   []MalformedRecord
}

// topProductLimit caps the product ranking
const topProductLimit = 5

// createdAtFormats are accepted created_at layouts, tried in order
var createdAtFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07",
	time.DateTime,
	time.DateOnly,
}

type parsedRecord struct {
	Record
	ts     time.Time
	amount float64
}

// Compute runs the full pipeline over a snapshot of order records: filter by
// date range, sort for the tabular view, and derive the revenue-by-day series
// and top-product ranking from the filtered (not sorted) set. It is a pure
// function of its inputs and never mutates the record slice.
//
// A record whose created_at or amount does not parse is excluded from all
// three views and reported in Result.Malformed instead of being coerced to a
// zero that would poison chart totals.
func Compute(records []Record, rng DateRange, directive SortDirective) Result {
	result := Result{
		Visible:     []Record{},
		Revenue:     Series{Labels: []string{}, Values: []float64{}},
		TopProducts: Ranking{Labels: []string{}, Values: []int{}},
	}

	filtered := make([]parsedRecord, 0, len(records))
	for _, rec := range records {
		parsed, err := parseRecord(rec)
		if err != nil {
			result.Malformed = append(result.Malformed, MalformedRecord{Record: rec, Reason: err.Error()})
			continue
		}
		if inRange(parsed.ts, rng) {
			filtered = append(filtered, parsed)
		}
	}

	result.Revenue = revenueByDay(filtered)
	result.TopProducts = topProducts(filtered)

	sorted := make([]parsedRecord, len(filtered))
	copy(sorted, filtered)
	sortRecords(sorted, directive)
	for _, rec := range sorted {
		result.Visible = append(result.Visible, rec.Record)
	}

	return result
}

func parseRecord(rec Record) (parsedRecord, error) {
	ts, err := ParseCreatedAt(rec.CreatedAt)
	if err != nil {
		return parsedRecord{}, err
	}

	amount, err := strconv.ParseFloat(rec.Amount, 64)
	if err != nil {
		return parsedRecord{}, fmt.Errorf("unparsable amount %q", rec.Amount)
	}

	return parsedRecord{Record: rec, ts: ts, amount: amount}, nil
}

// ParseCreatedAt parses a created_at value against the accepted layouts
func ParseCreatedAt(value string) (time.Time, error) {
	for _, layout := range createdAtFormats {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable created_at %q", value)
}

func inRange(ts time.Time, rng DateRange) bool {
	if rng.Start != nil && ts.Before(startOfDay(*rng.Start)) {
		return false
	}
	if rng.End != nil && ts.After(endOfDay(*rng.End)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns 23:59:59.999999999 so the end bound includes the whole day
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// sortRecords orders the slice per the directive. The sort is stable so that
// records with equal keys keep their relative input order, and re-sorting by
// the same key only flips direction.
func sortRecords(records []parsedRecord, directive SortDirective) {
	key := directive.Key
	if !key.Valid() {
		key = SortKeyCreatedAt
	}

	less := func(a, b parsedRecord) bool {
		switch key {
		case SortKeyOrderID:
			return a.OrderID < b.OrderID
		case SortKeyProduct:
			return a.Product < b.Product
		case SortKeyQuantity:
			return a.Quantity < b.Quantity
		case SortKeyAmount:
			return a.amount < b.amount
		default:
			return a.ts.Before(b.ts)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if directive.Direction == Descending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

// revenueByDay groups the filtered set by calendar day and sums amounts.
// Labels are always chronological, independent of the active sort directive.
func revenueByDay(records []parsedRecord) Series {
	totals := make(map[string]float64)
	for _, rec := range records {
		day := rec.ts.Format(time.DateOnly)
		totals[day] += rec.amount
	}

	labels := make([]string, 0, len(totals))
	for day := range totals {
		labels = append(labels, day)
	}
	// yyyy-mm-dd labels sort chronologically as text
	sort.Strings(labels)

	values := make([]float64, 0, len(labels))
	for _, day := range labels {
		values = append(values, totals[day])
	}

	return Series{Labels: labels, Values: values}
}

// topProducts sums quantity per product over the filtered set and keeps the
// five largest, ties broken by first encounter.
func topProducts(records []parsedRecord) Ranking {
	totals := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := totals[rec.Product]; !seen {
			order = append(order, rec.Product)
		}
		totals[rec.Product] += rec.Quantity
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})
	if len(order) > topProductLimit {
		order = order[:topProductLimit]
	}

	values := make([]int, 0, len(order))
	for _, product := range order {
		values = append(values, totals[product])
	}

	return Ranking{Labels: order, Values: values}
}
