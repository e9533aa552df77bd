package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"meditrack-system/config"
	"meditrack-system/internal/database"
	"meditrack-system/internal/gateway/handlers"
	"meditrack-system/internal/gateway/middleware"
	"meditrack-system/internal/services/alerts"
	"meditrack-system/internal/services/catalog"
	"meditrack-system/internal/services/orders"
	"meditrack-system/internal/services/reports"
	"meditrack-system/internal/services/restock"
	"meditrack-system/internal/services/sales"
	"meditrack-system/internal/services/stock"
	"meditrack-system/internal/services/users"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	jwtSecret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTL) * time.Hour

	ledger := stock.NewLedger(db)
	catalogSvc := catalog.NewService(db)
	ordersSvc := orders.NewService(db)
	recorder := sales.NewRecorder(db, ledger)
	ingestor := restock.NewIngestor(db, ledger)
	evaluator := alerts.NewEvaluator(db)
	reportsSvc := reports.NewService(db, redisClient, reports.Thresholds{
		LowStockCount:    cfg.Alerts.DashboardLowStockThreshold,
		ExpiryWindowDays: cfg.Alerts.DashboardExpiryWindowDays,
	})
	usersSvc := users.NewService(db, jwtSecret, tokenTTL)

	productHandler := handlers.NewProductHTTPHandler(catalogSvc, reportsSvc)
	supplierHandler := handlers.NewSupplierHTTPHandler(catalogSvc)
	orderHandler := handlers.NewOrderHTTPHandler(ordersSvc, reportsSvc)
	salesHandler := handlers.NewSalesHTTPHandler(recorder, ingestor, ledger, reportsSvc)
	reportHandler := handlers.NewReportHTTPHandler(reportsSvc, evaluator)
	userHandler := handlers.NewUserHTTPHandler(usersSvc)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
			auth.POST("/register", userHandler.Register)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		products := protected.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.GET("/sku/:sku", productHandler.GetProductBySKU)
			products.GET("/barcode/:barcode", productHandler.GetProductByBarcode)
			products.POST("/:id/adjust", salesHandler.AdjustStock)
		}

		suppliers := protected.Group("/suppliers")
		{
			suppliers.POST("", supplierHandler.CreateSupplier)
			suppliers.GET("", supplierHandler.ListSuppliers)
			suppliers.GET("/:id", supplierHandler.GetSupplier)
			suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
			suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
		}

		orderGroup := protected.Group("/orders")
		{
			orderGroup.POST("", orderHandler.CreateOrder)
			orderGroup.GET("", orderHandler.ListOrders)
			orderGroup.GET("/:id", orderHandler.GetOrder)
			orderGroup.PUT("/:id/status", orderHandler.UpdateStatus)
			orderGroup.PUT("/:id/payment", orderHandler.UpdatePaymentStatus)
			orderGroup.DELETE("/:id", orderHandler.CancelOrder)
		}

		salesGroup := protected.Group("/sales")
		{
			salesGroup.POST("", salesHandler.RecordSale)
		}

		protected.POST("/restock", salesHandler.IngestRestock)

		reportGroup := protected.Group("/reports")
		{
			reportGroup.GET("/top-sellers", reportHandler.TopSellingProducts)
			reportGroup.GET("/sales-chart", reportHandler.SalesChart)
			reportGroup.GET("/dashboard", reportHandler.Dashboard)
		}

		protected.GET("/alerts", reportHandler.StockAlerts)
	}

	r.GET("/health", healthCheckHandler(db, redisClient))

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
