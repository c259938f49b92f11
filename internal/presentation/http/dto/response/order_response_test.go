package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/analytics"
)

func TestFormatOrderID(t *testing.T) {
	testCases := []struct {
		name     string
		orderID  string
		expected string
	}{
		{name: "long id is truncated", orderID: "abcdefgh", expected: "ab...gh"},
		{name: "five chars is truncated", orderID: "abcde", expected: "ab...de"},
		{name: "four chars verbatim", orderID: "abcd", expected: "abcd"},
		{name: "short id verbatim", orderID: "ab", expected: "ab"},
		{name: "empty id", orderID: "", expected: ""},
		{name: "uuid style", orderID: "550e8400-e29b-41d4-a716-446655440000", expected: "55...00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatOrderID(tc.orderID))
		})
	}
}

func TestNewOrderRowFormatsCreatedAt(t *testing.T) {
	row := NewOrderRow(analytics.Record{
		ID:        "1",
		OrderID:   "abcdefgh",
		CreatedAt: "2025-06-15T18:45:00Z",
		Product:   "Pad Thai",
		Quantity:  2,
		Amount:    "12.50",
		Source:    "app",
	})

	assert.Equal(t, "ab...gh", row.DisplayID)
	assert.Equal(t, "abcdefgh", row.OrderID)
	assert.Equal(t, "15 Jun", row.CreatedDate)
	assert.Equal(t, "18:45", row.CreatedTime)
	assert.Equal(t, "12.50", row.Amount)
}

func TestNewOrderRowKeepsRawValueWhenUnparsable(t *testing.T) {
	row := NewOrderRow(analytics.Record{OrderID: "ab", CreatedAt: "not-a-date"})

	assert.Equal(t, "not-a-date", row.CreatedDate)
	assert.Empty(t, row.CreatedTime)
}
