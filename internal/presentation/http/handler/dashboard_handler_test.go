package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thaisrestaurant/orderdesk-api/internal/application/service"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
)

// stubOrderRepo serves a fixed snapshot to the dashboard service
type stubOrderRepo struct {
	orders []entity.Order
}

func (r *stubOrderRepo) Create(ctx context.Context, order *entity.Order) error { return nil }
func (r *stubOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.orders, nil
}
func (r *stubOrderRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newDashboardRouter(orders []entity.Order) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(service.NewDashboardService(&stubOrderRepo{orders: orders}))
	router := gin.New()
	router.GET("/dashboard", h.Get)
	return router
}

func testOrder(orderID, product string, qty int, amount string, createdAt time.Time) entity.Order {
	return entity.Order{
		ID:        uuid.New(),
		OrderID:   orderID,
		Product:   product,
		Quantity:  qty,
		Amount:    decimal.RequireFromString(amount),
		Source:    entity.SourceApp,
		CreatedAt: createdAt,
	}
}

type dashboardPayload struct {
	Data struct {
		Orders []struct {
			OrderID string `json:"order_id"`
			Amount  string `json:"amount"`
		} `json:"orders"`
		SortBy        string `json:"sort_by"`
		SortOrder     string `json:"sort_order"`
		RevenueSeries struct {
			Labels []string  `json:"labels"`
			Values []float64 `json:"values"`
		} `json:"revenue_series"`
		MalformedCount int `json:"malformed_count"`
	} `json:"data"`
}

func getDashboard(t *testing.T, router *gin.Engine, query string) (*httptest.ResponseRecorder, dashboardPayload) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard"+query, nil)
	router.ServeHTTP(w, req)

	var payload dashboardPayload
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func TestDashboardDefaults(t *testing.T) {
	router := newDashboardRouter([]entity.Order{
		testOrder("old", "Pad Thai", 1, "10.00", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		testOrder("new", "Pad Thai", 1, "15.00", time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)),
	})

	w, payload := getDashboard(t, router, "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "created_at", payload.Data.SortBy)
	assert.Equal(t, "desc", payload.Data.SortOrder)
	require.Len(t, payload.Data.Orders, 2)
	assert.Equal(t, "new", payload.Data.Orders[0].OrderID)
	// Revenue stays chronological even though the table is newest-first
	assert.Equal(t, []string{"2025-06-01", "2025-06-02"}, payload.Data.RevenueSeries.Labels)
	assert.Equal(t, []float64{10, 15}, payload.Data.RevenueSeries.Values)
}

func TestDashboardSortToggle(t *testing.T) {
	router := newDashboardRouter([]entity.Order{
		testOrder("a", "Pad Thai", 1, "10.00", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		testOrder("b", "Spring Roll", 1, "5.00", time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)),
	})

	// Clicking the active ascending column flips it to descending
	w, payload := getDashboard(t, router, "?sort_by=amount&sort_order=asc&toggle=amount")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "amount", payload.Data.SortBy)
	assert.Equal(t, "desc", payload.Data.SortOrder)
	require.Len(t, payload.Data.Orders, 2)
	assert.Equal(t, "a", payload.Data.Orders[0].OrderID)

	// Clicking a different column starts it ascending
	w, payload = getDashboard(t, router, "?sort_by=amount&sort_order=desc&toggle=product")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "product", payload.Data.SortBy)
	assert.Equal(t, "asc", payload.Data.SortOrder)
}

func TestDashboardDateRange(t *testing.T) {
	router := newDashboardRouter([]entity.Order{
		testOrder("a", "Pad Thai", 1, "10.00", time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)),
		testOrder("b", "Green Curry", 1, "12.00", time.Date(2025, 6, 5, 12, 0, 0, 0, time.Local)),
	})

	w, payload := getDashboard(t, router, "?start_date=2025-06-05&end_date=2025-06-05")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, payload.Data.Orders, 1)
	assert.Equal(t, "b", payload.Data.Orders[0].OrderID)
}

func TestDashboardRejectsBadDate(t *testing.T) {
	router := newDashboardRouter(nil)

	w, _ := getDashboard(t, router, "?start_date=05-06-2025")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
