package controllers

import (
	"net/http"

	"admin-api/models"
	"admin-api/services"

	"github.com/gin-gonic/gin"
)

// OrderController handles HTTP requests for order operations.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles POST /orders. The order, its items, the inventory
// decrements and the audit log entries commit as one atomic unit.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

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

	var status *models.OrderStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.OrderStatus(raw)
		if !s.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: expected pending, completed or cancelled"})
			return
		}
		status = &s
	}

	filter := models.OrderFilter{
		StartDate:            startDate,
		EndDate:              exclusiveEnd(endDate),
		Status:               status,
		CustomerNameContains: ctx.Query("customer_name"),
	}

	result, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), filter, page, pageSize)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UpdateOrderStatus handles PATCH /orders/:id/status. Cancelling an order
// restores its lines' stock through the inventory ledger.
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.UpdateOrderStatus(ctx.Request.Context(), id, req.Status)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, order)
}
