// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(orderService *order.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		orderService: orderService,
		config:       cfg,
	}
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	summary, err := h.orderService.Checkout(userID, &req)
	if err != nil {
		middleware.RecordReconcileOperation("checkout", false)
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, catalog.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "A product in your cart is no longer available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete checkout"})
		}
		return
	}
	middleware.RecordReconcileOperation("checkout", true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout completed successfully",
		"data":    summary,
	})
}
