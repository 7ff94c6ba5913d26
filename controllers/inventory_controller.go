package controllers

import (
	"net/http"
	"strconv"

	"admin-api/models"
	"admin-api/services"

	"github.com/gin-gonic/gin"
)

// InventoryController handles HTTP requests for inventory operations.
type InventoryController struct {
	inventoryService services.InventoryService
}

// NewInventoryController creates a new InventoryController.
func NewInventoryController(inventoryService services.InventoryService) *InventoryController {
	return &InventoryController{inventoryService: inventoryService}
}

// ListInventory handles GET /inventory. Supports low_stock, product_id and
// category_id filters; the low-stock flag on each row is computed on read.
func (ic *InventoryController) ListInventory(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	productID, ok := parseUUIDQuery(ctx, "product_id")
	if !ok {
		return
	}
	categoryID, ok := parseUUIDQuery(ctx, "category_id")
	if !ok {
		return
	}

	var lowStock *bool
	if raw := ctx.Query("low_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid low_stock: expected a boolean"})
			return
		}
		lowStock = &v
	}

	filter := models.InventoryFilter{
		LowStock:   lowStock,
		ProductID:  productID,
		CategoryID: categoryID,
	}

	result, svcErr := ic.inventoryService.ListInventory(ctx.Request.Context(), filter, page, pageSize)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// AdjustInventory handles PATCH /inventory/:product_id. Accepts either a
// relative quantity_change or an absolute_quantity, plus an optional reason
// and low_stock_threshold.
func (ic *InventoryController) AdjustInventory(ctx *gin.Context) {
	productID, ok := parseUUIDParam(ctx, "product_id")
	if !ok {
		return
	}

	var req models.AdjustInventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := ic.inventoryService.AdjustInventory(ctx.Request.Context(), productID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// ListInventoryLogs handles GET /inventory/logs.
func (ic *InventoryController) ListInventoryLogs(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	productID, ok := parseUUIDQuery(ctx, "product_id")
	if !ok {
		return
	}
	startDate, ok := parseDateQuery(ctx, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseDateQuery(ctx, "end_date")
	if !ok {
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "start_date cannot be after end_date"})
		return
	}

	filter := models.InventoryLogFilter{
		ProductID:      productID,
		StartDate:      startDate,
		EndDate:        exclusiveEnd(endDate),
		ReasonContains: ctx.Query("reason"),
	}

	result, svcErr := ic.inventoryService.ListInventoryLogs(ctx.Request.Context(), filter, page, pageSize)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
