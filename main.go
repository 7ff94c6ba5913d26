package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admin-api/controllers"
	"admin-api/database"
	"admin-api/repository"
	"admin-api/routes"
	servicepkg "admin-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	// DI chain
	store := repository.NewGormStore(database.DB)
	categoryService := servicepkg.NewCategoryService(store, logger)
	productService := servicepkg.NewProductService(store, logger)
	inventoryService := servicepkg.NewInventoryService(store, logger)
	orderService := servicepkg.NewOrderService(store, logger)
	salesService := servicepkg.NewSalesService(store, logger)

	categoryController := controllers.NewCategoryController(categoryService)
	productController := controllers.NewProductController(productService)
	inventoryController := controllers.NewInventoryController(inventoryService)
	orderController := controllers.NewOrderController(orderService)
	salesController := controllers.NewSalesController(salesService)

	r := gin.New()
	r.Use(gin.Recovery())

	// Global request-logging middleware
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
		)
	})

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "admin-api"})
	})

	routes.RegisterRoutes(r, categoryController, productController, inventoryController, orderController, salesController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Admin API started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down admin API...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}
