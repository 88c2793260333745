// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/revenue"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// Services bundles the wired domain services the HTTP layer exposes
type Services struct {
	Catalog *catalog.Service
	User    *user.Service
	Cart    *cart.Service
	Order   *order.Service
	Ledger  *revenue.Ledger
	PDF     *pdf.Service
}

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, svc *Services, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(svc.User, cfg)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, cfg)
	cartHandler := handlers.NewCartHandler(svc.Cart, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Order, cfg)
	orderHandler := handlers.NewOrderHandler(svc.Order, cfg)
	revenueHandler := handlers.NewRevenueHandler(svc.Ledger, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(svc.Order, svc.PDF, cfg)

	// Public auth endpoints
	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}

	// Public catalog endpoints
	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	// Cart endpoints, authenticated per user
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:productId", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}

	// Checkout endpoint
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("", checkoutHandler.Checkout)
	}

	// Order history endpoints
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
	}

	// Admin endpoints
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/orders", orderHandler.AdminListOrders)
		admin.GET("/orders/:id", orderHandler.AdminGetOrder)
		admin.PUT("/orders/:id/status", orderHandler.AdminUpdateOrderStatus)
		admin.GET("/orders/:id/invoice", invoiceHandler.GetInvoice)
		admin.GET("/revenue", revenueHandler.GetRevenue)
	}
}
