package response

import (
	"github.com/thaisrestaurant/orderdesk-api/internal/application/service"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/analytics"
)

// OrderRow is one dashboard table row: the raw order values plus the
// per-row display formatting the table uses. Formatting lives here at the
// presentation boundary so the aggregation core stays locale-free.
type OrderRow struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	DisplayID   string `json:"display_id"`
	CreatedAt   string `json:"created_at"`
	CreatedDate string `json:"created_date"`
	CreatedTime string `json:"created_time"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	Amount      string `json:"amount"`
	Source      string `json:"source"`
}

// DashboardResponse is the payload for the dashboard endpoint
type DashboardResponse struct {
	Orders         []OrderRow        `json:"orders"`
	SortBy         string            `json:"sort_by"`
	SortOrder      string            `json:"sort_order"`
	RevenueSeries  analytics.Series  `json:"revenue_series"`
	TopProducts    analytics.Ranking `json:"top_products"`
	MalformedCount int               `json:"malformed_count"`
}

// NewDashboardResponse maps a computed dashboard view onto the wire shape
func NewDashboardResponse(view *service.DashboardView) DashboardResponse {
	rows := make([]OrderRow, 0, len(view.Orders))
	for _, rec := range view.Orders {
		rows = append(rows, NewOrderRow(rec))
	}

	return DashboardResponse{
		Orders:         rows,
		SortBy:         string(view.Sort.Key),
		SortOrder:      string(view.Sort.Direction),
		RevenueSeries:  view.Revenue,
		TopProducts:    view.TopProducts,
		MalformedCount: view.MalformedCount,
	}
}

// NewOrderRow builds one table row from a pipeline record
func NewOrderRow(rec analytics.Record) OrderRow {
	row := OrderRow{
		ID:        rec.ID,
		OrderID:   rec.OrderID,
		DisplayID: FormatOrderID(rec.OrderID),
		CreatedAt: rec.CreatedAt,
		Product:   rec.Product,
		Quantity:  rec.Quantity,
		Amount:    rec.Amount,
		Source:    rec.Source,
	}

	// Records coming out of the pipeline always parsed; fall back to the
	// raw value for anything rendered outside it
	if ts, err := analytics.ParseCreatedAt(rec.CreatedAt); err == nil {
		row.CreatedDate = ts.Format("02 Jan")
		row.CreatedTime = ts.Format("15:04")
	} else {
		row.CreatedDate = rec.CreatedAt
	}

	return row
}

// FormatOrderID truncates a business order id for display: first two and
// last two characters joined by an ellipsis when longer than four, verbatim
// otherwise.
func FormatOrderID(orderID string) string {
	runes := []rune(orderID)
	if len(runes) <= 4 {
		return orderID
	}
	return string(runes[:2]) + "..." + string(runes[len(runes)-2:])
}
