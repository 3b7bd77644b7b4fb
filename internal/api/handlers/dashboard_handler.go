package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) parseFilter(c *gin.Context) domain.ExplorerFilter {
	return domain.ExplorerFilter{
		Warehouse: strings.TrimSpace(c.Query("warehouse")),
		Buyer:     strings.TrimSpace(c.Query("buyer")),
		Category:  strings.TrimSpace(c.Query("category")),
	}.Normalize()
}

// parseAsOf reads the optional as_of date; a zero time means today.
func (h *DashboardHandler) parseAsOf(c *gin.Context) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("as_of"))
	if raw == "" {
		return time.Time{}, nil
	}
	asOf, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("as_of must be YYYY-MM-DD, got %q", raw)
	}
	return asOf, nil
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
}

// GetDashboard renders the view named by ?view=, defaulting to overview.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	view, ok := domain.ParseViewMode(c.Query("view"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid view",
			"details": fmt.Sprintf("view must be %q or %q", domain.ViewOverview, domain.ViewExplorer),
		})
		return
	}

	asOf, err := h.parseAsOf(c)
	if err != nil {
		badRequest(c, "invalid as_of date", err)
		return
	}

	dashboard, err := h.service.Render(c.Request.Context(), view, h.parseFilter(c), asOf)
	if err != nil {
		if errors.Is(err, service.ErrUnknownView) {
			badRequest(c, "invalid view", err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	asOf, err := h.parseAsOf(c)
	if err != nil {
		badRequest(c, "invalid as_of date", err)
		return
	}

	c.JSON(http.StatusOK, h.service.Overview(c.Request.Context(), asOf))
}

func (h *DashboardHandler) GetExplorer(c *gin.Context) {
	asOf, err := h.parseAsOf(c)
	if err != nil {
		badRequest(c, "invalid as_of date", err)
		return
	}

	c.JSON(http.StatusOK, h.service.Explorer(c.Request.Context(), h.parseFilter(c), asOf))
}

func (h *DashboardHandler) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.FilterOptions(c.Request.Context()))
}
