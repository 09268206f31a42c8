package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ams-gateway/internal/shared/middleware"
	"ams-gateway/internal/shared/response"
	"ams-gateway/internal/upstream"
	"ams-gateway/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupRequestRoutes(v1, c)
		setupStockEntryRoutes(v1, c)
		setupLocationRoutes(v1, c)
		setupInventoryRoutes(v1, c)
	}

	return router
}

// ========================================
// INTER-STORE REQUEST ROUTES
// ========================================
func setupRequestRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requests := v1.Group("/inter-store-requests")
	requests.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		requests.GET("", c.RequestHandler.List(upstream.ScopeAll))
		requests.GET("/outgoing", c.RequestHandler.List(upstream.ScopeOutgoing))
		requests.GET("/incoming", c.RequestHandler.List(upstream.ScopeIncoming))
		requests.GET("/pending", c.RequestHandler.List(upstream.ScopePending))
		requests.POST("", c.RequestHandler.Create)
		requests.GET("/valid-fulfilling-stores", c.RequestHandler.ValidFulfillingStores)
		requests.GET("/:id", c.RequestHandler.Get)
		requests.POST("/:id/start-processing", c.RequestHandler.StartProcessing)
		requests.POST("/:id/cancel", c.RequestHandler.Cancel)
		requests.POST("/:id/acknowledge", c.RequestHandler.Acknowledge)

		// Availability marking works against a per-user session; nothing
		// reaches the platform until submit.
		requests.GET("/:id/availability", c.RequestHandler.AvailabilitySession)
		requests.PUT("/:id/availability/items/:itemID", c.RequestHandler.SetAvailability)
		requests.POST("/:id/availability/submit", c.RequestHandler.SubmitAvailability)

		// Dispatch allocation, same session model.
		requests.POST("/:id/dispatch", c.RequestHandler.EnterDispatch)
		requests.GET("/:id/dispatch", c.RequestHandler.DispatchSession)
		requests.POST("/:id/dispatch/items/:itemID/quick-select", c.RequestHandler.QuickSelect)
		requests.POST("/:id/dispatch/items/:itemID/instances/:instanceID/toggle", c.RequestHandler.ToggleInstance)
		requests.PUT("/:id/dispatch/items/:itemID/batches/:batchID", c.RequestHandler.SetBatchQuantity)
		requests.PUT("/:id/dispatch/items/:itemID/quantity", c.RequestHandler.SetBulkQuantity)
		requests.POST("/:id/dispatch/submit", c.RequestHandler.SubmitDispatch)
	}
}

// ========================================
// STOCK ENTRY ROUTES
// ========================================
func setupStockEntryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	entries := v1.Group("/stock-entries")
	entries.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		entries.GET("", c.StockEntryHandler.List)
		entries.GET("/my-entries", c.StockEntryHandler.MyEntries)
		entries.GET("/create-options", c.StockEntryHandler.CreateOptions)
		entries.GET("/item-stock", c.StockEntryHandler.ItemStock)
		entries.POST("", c.StockEntryHandler.Create)
		entries.GET("/:id", c.StockEntryHandler.Get)
		entries.POST("/:id/cancel", c.StockEntryHandler.Cancel)

		entries.GET("/:id/acknowledge", c.StockEntryHandler.AckSession)
		entries.PUT("/:id/acknowledge/accepted", c.StockEntryHandler.SetAccepted)
		entries.PUT("/:id/acknowledge/rejected", c.StockEntryHandler.SetRejected)
		entries.POST("/:id/acknowledge/instances/:instanceID/accept", c.StockEntryHandler.AcceptInstance)
		entries.POST("/:id/acknowledge/instances/:instanceID/reject", c.StockEntryHandler.RejectInstance)
		entries.PUT("/:id/acknowledge/reason", c.StockEntryHandler.SetReason)
		entries.POST("/:id/acknowledge/submit", c.StockEntryHandler.SubmitAck)
		entries.POST("/:id/acknowledge-return", c.StockEntryHandler.AcknowledgeReturn)
	}
}

// ========================================
// LOCATION ROUTES
// ========================================
func setupLocationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	locations := v1.Group("/locations")
	locations.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		locations.GET("", c.LocationHandler.Locations)
		locations.GET("/stores", c.LocationHandler.Stores)
		locations.GET("/my-stores", c.LocationHandler.MyStores)
		locations.GET("/stores/:id/valid-sources", c.LocationHandler.ValidSources)
	}
}

// ========================================
// INVENTORY ROUTES
// ========================================
func setupInventoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	inventory := v1.Group("/inventory")
	inventory.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		inventory.GET("/item-instances", c.InventoryHandler.ItemInstances)
		inventory.GET("/item-batches", c.InventoryHandler.ItemBatches)
		inventory.GET("/consumable-stock", c.InventoryHandler.ConsumableStock)
		inventory.GET("/location-inventory", c.InventoryHandler.LocationInventory)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checks := gin.H{"sessions": "ok", "upstream": "ok"}
		healthy := true

		if err := c.Sessions.Ping(ctx.Request.Context()); err != nil {
			checks["sessions"] = err.Error()
			healthy = false
		}
		if err := c.Upstream.Ping(ctx.Request.Context()); err != nil {
			checks["upstream"] = err.Error()
			healthy = false
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		response.Success(ctx, status, gin.H{
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
