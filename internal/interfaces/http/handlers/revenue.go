// internal/interfaces/http/handlers/revenue.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/revenue"
)

// RevenueHandler handles admin revenue reporting endpoints
type RevenueHandler struct {
	ledger *revenue.Ledger
	config *config.Config
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(ledger *revenue.Ledger, cfg *config.Config) *RevenueHandler {
	return &RevenueHandler{
		ledger: ledger,
		config: cfg,
	}
}

// GetRevenue handles GET /admin/revenue
func (h *RevenueHandler) GetRevenue(c *gin.Context) {
	period, err := revenue.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid period, expected daily, monthly or yearly",
		})
		return
	}

	req := revenue.ReportRequest{Period: period}
	if yearParam := c.Query("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		req.Year = year
	}
	if monthParam := c.Query("month"); monthParam != "" {
		month, err := strconv.Atoi(monthParam)
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		req.Month = month
	}

	summaries, err := h.ledger.Report(req)
	if err != nil {
		if errors.Is(err, revenue.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve revenue report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue report retrieved successfully",
		"data": gin.H{
			"period":  period,
			"buckets": summaries,
		},
	})
}
