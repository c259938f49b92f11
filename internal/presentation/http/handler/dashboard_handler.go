package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thaisrestaurant/orderdesk-api/internal/application/service"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/analytics"
	"github.com/thaisrestaurant/orderdesk-api/internal/presentation/http/dto/response"
)

const dateLayout = "2006-01-02"

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get computes the filtered, sorted dashboard with its chart series
// @Summary Dashboard
// @Description Order list filtered by date range and sorted, with revenue-by-day and top-product series
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Param start_date query string false "Range start (yyyy-mm-dd)"
// @Param end_date query string false "Range end (yyyy-mm-dd, inclusive)"
// @Param sort_by query string false "Sort key: order_id, created_at, product, quantity, amount"
// @Param sort_order query string false "asc or desc"
// @Param toggle query string false "Column header clicked; flips or replaces the active sort"
// @Success 200 {object} response.APIResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	input := &service.DashboardInput{
		Sort: parseSort(c),
	}

	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
			input.StartDate = &t
		} else {
			response.BadRequest(c, "start_date must be yyyy-mm-dd")
			return
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
			input.EndDate = &t
		} else {
			response.BadRequest(c, "end_date must be yyyy-mm-dd")
			return
		}
	}

	view, err := h.dashboardService.GetDashboard(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", response.NewDashboardResponse(view))
}

// parseSort reads the active sort from the query string and applies the
// header-click toggle when one is submitted. An unknown key falls back to
// the default sort rather than failing the request.
func parseSort(c *gin.Context) analytics.SortDirective {
	active := analytics.DefaultSort()

	if key := analytics.SortKey(c.Query("sort_by")); key.Valid() {
		active.Key = key
		if analytics.SortDirection(c.Query("sort_order")) == analytics.Ascending {
			active.Direction = analytics.Ascending
		} else {
			active.Direction = analytics.Descending
		}
	}

	if clicked := analytics.SortKey(c.Query("toggle")); clicked.Valid() {
		return analytics.NextSort(active, clicked)
	}
	return active
}
