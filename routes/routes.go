package routes

import (
	"admin-api/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every API route under /api/v1.
func RegisterRoutes(
	r *gin.Engine,
	cc *controllers.CategoryController,
	pc *controllers.ProductController,
	ic *controllers.InventoryController,
	oc *controllers.OrderController,
	sc *controllers.SalesController,
) {
	v1 := r.Group("/api/v1")

	categories := v1.Group("/categories")
	categories.POST("", cc.CreateCategory)
	categories.GET("", cc.ListCategories)
	categories.GET("/:id", cc.GetCategory)
	categories.PATCH("/:id", cc.UpdateCategory)
	categories.DELETE("/:id", cc.DeleteCategory)

	products := v1.Group("/products")
	products.POST("", pc.RegisterProduct)
	products.GET("", pc.ListProducts)
	products.GET("/:id", pc.GetProduct)
	products.PATCH("/:id", pc.UpdateProduct)
	products.DELETE("/:id", pc.DeleteProduct)

	inventory := v1.Group("/inventory")
	inventory.GET("", ic.ListInventory)
	inventory.GET("/logs", ic.ListInventoryLogs)
	inventory.PATCH("/:product_id", ic.AdjustInventory)

	orders := v1.Group("/orders")
	orders.POST("", oc.CreateOrder)
	orders.GET("", oc.ListOrders)
	orders.GET("/:id", oc.GetOrder)
	orders.PATCH("/:id/status", oc.UpdateOrderStatus)

	reports := v1.Group("/reports")
	reports.GET("/sales", sc.SalesReport)
	reports.GET("/revenue/summary", sc.RevenueSummary)
	reports.GET("/revenue/comparison", sc.RevenueComparison)
}
