package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) *time.Time {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleRecords() []Record {
	return []Record{
		{ID: "1", OrderID: "aaaa1111", CreatedAt: "2025-06-01T12:00:00Z", Product: "Pad Thai", Quantity: 2, Amount: "10", Source: "app"},
		{ID: "2", OrderID: "bbbb2222", CreatedAt: "2025-06-01T18:30:00Z", Product: "Pad Thai", Quantity: 1, Amount: "15", Source: "app"},
		{ID: "3", OrderID: "cccc3333", CreatedAt: "2025-06-02T11:15:00Z", Product: "Spring Roll", Quantity: 5, Amount: "20", Source: "app"},
	}
}

func TestComputeEmptyRangeIsIdentity(t *testing.T) {
	records := sampleRecords()

	result := Compute(records, DateRange{}, SortDirective{})

	require.Len(t, result.Visible, len(records))
	assert.Empty(t, result.Malformed)
	// unknown sort key falls back to created_at; default direction is asc
	// here, so check membership against input order via an explicit key
	result = Compute(records, DateRange{}, SortDirective{Key: SortKeyOrderID, Direction: Ascending})
	for i, rec := range result.Visible {
		assert.Equal(t, records[i], rec)
	}
}

func TestComputeInvertedRangeYieldsEmpty(t *testing.T) {
	result := Compute(sampleRecords(), DateRange{Start: day("2025-06-10"), End: day("2025-06-01")}, DefaultSort())

	assert.Empty(t, result.Visible)
	assert.Empty(t, result.Revenue.Labels)
	assert.Empty(t, result.Revenue.Values)
	assert.Empty(t, result.TopProducts.Labels)
}

func TestComputeRangeBoundsAreInclusive(t *testing.T) {
	records := []Record{
		{ID: "1", OrderID: "a", CreatedAt: "2025-06-01T00:00:00", Product: "Soup", Quantity: 1, Amount: "5"},
		{ID: "2", OrderID: "b", CreatedAt: "2025-06-02T23:59:59", Product: "Soup", Quantity: 1, Amount: "5"},
		{ID: "3", OrderID: "c", CreatedAt: "2025-06-03T00:00:00", Product: "Soup", Quantity: 1, Amount: "5"},
	}

	result := Compute(records, DateRange{Start: day("2025-06-01"), End: day("2025-06-02")}, DefaultSort())

	require.Len(t, result.Visible, 2)
	for _, rec := range result.Visible {
		assert.NotEqual(t, "c", rec.OrderID)
	}
}

func TestComputeScenarioRevenueAndTopProducts(t *testing.T) {
	result := Compute(sampleRecords(), DateRange{}, DefaultSort())

	assert.Equal(t, []string{"2025-06-01", "2025-06-02"}, result.Revenue.Labels)
	assert.Equal(t, []float64{25, 20}, result.Revenue.Values)
	assert.Equal(t, []string{"Spring Roll", "Pad Thai"}, result.TopProducts.Labels)
	assert.Equal(t, []int{5, 3}, result.TopProducts.Values)
}

func TestComputeRevenueSumIsLossless(t *testing.T) {
	result := Compute(sampleRecords(), DateRange{}, DefaultSort())

	var seriesSum float64
	for _, v := range result.Revenue.Values {
		seriesSum += v
	}
	assert.InDelta(t, 45.0, seriesSum, 1e-9)
}

func TestComputeRevenueOrderIndependentOfSort(t *testing.T) {
	byAmount := Compute(sampleRecords(), DateRange{}, SortDirective{Key: SortKeyAmount, Direction: Descending})
	byProduct := Compute(sampleRecords(), DateRange{}, SortDirective{Key: SortKeyProduct, Direction: Ascending})

	assert.Equal(t, byAmount.Revenue, byProduct.Revenue)
	assert.Equal(t, []string{"2025-06-01", "2025-06-02"}, byAmount.Revenue.Labels)
}

func TestComputeSortByAmountDescending(t *testing.T) {
	records := []Record{
		{ID: "1", OrderID: "a", CreatedAt: "2025-06-01T10:00:00Z", Product: "A", Quantity: 1, Amount: "5"},
		{ID: "2", OrderID: "b", CreatedAt: "2025-06-01T11:00:00Z", Product: "B", Quantity: 1, Amount: "20"},
		{ID: "3", OrderID: "c", CreatedAt: "2025-06-01T12:00:00Z", Product: "C", Quantity: 1, Amount: "10"},
	}

	result := Compute(records, DateRange{}, SortDirective{Key: SortKeyAmount, Direction: Descending})

	amounts := make([]string, 0, len(result.Visible))
	for _, rec := range result.Visible {
		amounts = append(amounts, rec.Amount)
	}
	assert.Equal(t, []string{"20", "10", "5"}, amounts)
}

func TestComputeSortIsStable(t *testing.T) {
	records := []Record{
		{ID: "1", OrderID: "a", CreatedAt: "2025-06-01T10:00:00Z", Product: "Soup", Quantity: 2, Amount: "9"},
		{ID: "2", OrderID: "b", CreatedAt: "2025-06-01T11:00:00Z", Product: "Soup", Quantity: 2, Amount: "9"},
		{ID: "3", OrderID: "c", CreatedAt: "2025-06-01T12:00:00Z", Product: "Soup", Quantity: 2, Amount: "9"},
	}

	for _, direction := range []SortDirection{Ascending, Descending} {
		result := Compute(records, DateRange{}, SortDirective{Key: SortKeyQuantity, Direction: direction})
		ids := make([]string, 0, 3)
		for _, rec := range result.Visible {
			ids = append(ids, rec.OrderID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids, "direction %s", direction)
	}
}

func TestComputeDirectionFlipReverses(t *testing.T) {
	records := sampleRecords()

	asc := Compute(records, DateRange{}, SortDirective{Key: SortKeyAmount, Direction: Ascending})
	desc := Compute(records, DateRange{}, SortDirective{Key: SortKeyAmount, Direction: Descending})

	require.Len(t, desc.Visible, len(asc.Visible))
	for i := range asc.Visible {
		assert.Equal(t, asc.Visible[i], desc.Visible[len(desc.Visible)-1-i])
	}
}

func TestComputeCreatedAtSortsByTimestampNotText(t *testing.T) {
	// the second record sorts first lexically but later as a timestamp
	records := []Record{
		{ID: "1", OrderID: "a", CreatedAt: "2025-06-02T09:00:00+09:00", Product: "A", Quantity: 1, Amount: "1"},
		{ID: "2", OrderID: "b", CreatedAt: "2025-06-01T23:30:00-02:00", Product: "B", Quantity: 1, Amount: "1"},
	}

	result := Compute(records, DateRange{}, SortDirective{Key: SortKeyCreatedAt, Direction: Ascending})

	require.Len(t, result.Visible, 2)
	assert.Equal(t, "a", result.Visible[0].OrderID)
	assert.Equal(t, "b", result.Visible[1].OrderID)
}

func TestComputeTopProductsCappedAtFive(t *testing.T) {
	records := make([]Record, 0, 8)
	products := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, p := range products {
		records = append(records, Record{
			ID:        p,
			OrderID:   p,
			CreatedAt: "2025-06-01T10:00:00Z",
			Product:   p,
			Quantity:  i + 1,
			Amount:    "1",
		})
	}

	result := Compute(records, DateRange{}, DefaultSort())

	require.Len(t, result.TopProducts.Labels, 5)
	assert.Equal(t, []string{"H", "G", "F", "E", "D"}, result.TopProducts.Labels)
	assert.Equal(t, []int{8, 7, 6, 5, 4}, result.TopProducts.Values)
}

func TestComputeTopProductsTieBreakByFirstEncounter(t *testing.T) {
	records := []Record{
		{ID: "1", OrderID: "a", CreatedAt: "2025-06-01T10:00:00Z", Product: "Soup", Quantity: 3, Amount: "1"},
		{ID: "2", OrderID: "b", CreatedAt: "2025-06-01T11:00:00Z", Product: "Rice", Quantity: 3, Amount: "1"},
	}

	result := Compute(records, DateRange{}, DefaultSort())

	assert.Equal(t, []string{"Soup", "Rice"}, result.TopProducts.Labels)
}

func TestComputeMalformedRecordsExcludedAndReported(t *testing.T) {
	records := append(sampleRecords(),
		Record{ID: "4", OrderID: "dddd", CreatedAt: "not-a-date", Product: "Curry", Quantity: 1, Amount: "10"},
		Record{ID: "5", OrderID: "eeee", CreatedAt: "2025-06-01T10:00:00Z", Product: "Curry", Quantity: 1, Amount: "ten"},
	)

	result := Compute(records, DateRange{}, DefaultSort())

	require.Len(t, result.Malformed, 2)
	assert.Contains(t, result.Malformed[0].Reason, "created_at")
	assert.Contains(t, result.Malformed[1].Reason, "amount")
	assert.Len(t, result.Visible, 3)
	// malformed amounts must not leak into chart totals
	var sum float64
	for _, v := range result.Revenue.Values {
		sum += v
	}
	assert.InDelta(t, 45.0, sum, 1e-9)
	assert.NotContains(t, result.TopProducts.Labels, "Curry")
}

func TestComputeIsIdempotent(t *testing.T) {
	records := sampleRecords()
	rng := DateRange{Start: day("2025-06-01"), End: day("2025-06-02")}
	directive := SortDirective{Key: SortKeyProduct, Direction: Descending}

	first := Compute(records, rng, directive)
	second := Compute(records, rng, directive)

	assert.Equal(t, first, second)
	// input order must survive both runs untouched
	assert.Equal(t, sampleRecords(), records)
}

func TestComputeEmptyInput(t *testing.T) {
	result := Compute(nil, DateRange{}, DefaultSort())

	assert.NotNil(t, result.Visible)
	assert.Empty(t, result.Visible)
	assert.Empty(t, result.Revenue.Labels)
	assert.Empty(t, result.TopProducts.Labels)
}

func TestNextSort(t *testing.T) {
	testCases := []struct {
		name      string
		active    SortDirective
		requested SortKey
		expected  SortDirective
	}{
		{
			name:      "new key starts ascending",
			active:    DefaultSort(),
			requested: SortKeyAmount,
			expected:  SortDirective{Key: SortKeyAmount, Direction: Ascending},
		},
		{
			name:      "same key flips asc to desc",
			active:    SortDirective{Key: SortKeyProduct, Direction: Ascending},
			requested: SortKeyProduct,
			expected:  SortDirective{Key: SortKeyProduct, Direction: Descending},
		},
		{
			name:      "same key flips desc to asc",
			active:    SortDirective{Key: SortKeyProduct, Direction: Descending},
			requested: SortKeyProduct,
			expected:  SortDirective{Key: SortKeyProduct, Direction: Ascending},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NextSort(tc.active, tc.requested))
		})
	}
}

func TestParseCreatedAtLayouts(t *testing.T) {
	for _, value := range []string{
		"2025-06-01T12:00:00Z",
		"2025-06-01T12:00:00.123456+02:00",
		"2025-06-01 12:00:00",
		"2025-06-01",
	} {
		_, err := ParseCreatedAt(value)
		assert.NoError(t, err, value)
	}

	_, err := ParseCreatedAt("yesterday")
	assert.Error(t, err)
}
