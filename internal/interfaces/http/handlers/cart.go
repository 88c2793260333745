// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

// AddToCartRequest represents add to cart data
type AddToCartRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Size          string `json:"size"`
	Quantity      int    `json:"quantity" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// UpdateCartItemRequest represents an absolute quantity update
type UpdateCartItemRequest struct {
	Size          string `json:"size"`
	Quantity      *int   `json:"quantity" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	snapshot, err := h.cartService.GetCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    snapshot,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot, err := h.cartService.AddLine(userID, req.ProductID, req.Size, req.Quantity, req.PaymentMethod)
	if err != nil {
		middleware.RecordReconcileOperation("add_to_cart", false)
		h.respondCartError(c, err)
		return
	}
	middleware.RecordReconcileOperation("add_to_cart", true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    snapshot,
	})
}

// UpdateCartItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snapshot, err := h.cartService.SetLineQuantity(userID, uint(productID), req.Size, *req.Quantity, req.PaymentMethod)
	if err != nil {
		middleware.RecordReconcileOperation("update_cart_item", false)
		h.respondCartError(c, err)
		return
	}
	middleware.RecordReconcileOperation("update_cart_item", true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    snapshot,
	})
}

// RemoveFromCart handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	snapshot, err := h.cartService.RemoveLine(userID, uint(productID), c.Query("size"), "")
	if err != nil {
		middleware.RecordReconcileOperation("remove_from_cart", false)
		h.respondCartError(c, err)
		return
	}
	middleware.RecordReconcileOperation("remove_from_cart", true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    snapshot,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	snapshot, err := h.cartService.Clear(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    snapshot,
	})
}

func (h *CartHandler) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, catalog.ErrSizeRequired), errors.Is(err, catalog.ErrInvalidSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrQuantityRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity out of range"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}
