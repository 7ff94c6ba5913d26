package controllers

import (
	"fmt"
	"net/http"
	"time"

	"admin-api/models"
	"admin-api/services"

	"github.com/gin-gonic/gin"
)

// SalesController handles HTTP requests for sales reporting.
type SalesController struct {
	salesService services.SalesService
}

// NewSalesController creates a new SalesController.
func NewSalesController(salesService services.SalesService) *SalesController {
	return &SalesController{salesService: salesService}
}

// SalesReport handles GET /reports/sales: per-line sale rows joined with
// product and category, newest orders first.
func (sc *SalesController) SalesReport(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	startDate, ok := parseDateQuery(ctx, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseDateQuery(ctx, "end_date")
	if !ok {
		return
	}
	productID, ok := parseUUIDQuery(ctx, "product_id")
	if !ok {
		return
	}
	categoryID, ok := parseUUIDQuery(ctx, "category_id")
	if !ok {
		return
	}

	filter := models.SalesFilter{
		StartDate:  startDate,
		EndDate:    exclusiveEnd(endDate),
		ProductID:  productID,
		CategoryID: categoryID,
	}

	result, svcErr := sc.salesService.SalesReport(ctx.Request.Context(), filter, page, pageSize)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// RevenueSummary handles GET /reports/revenue/summary. period, start_date and
// end_date are required; product_id and category_id narrow the revenue basis
// to matching order lines.
func (sc *SalesController) RevenueSummary(ctx *gin.Context) {
	granularity := models.Granularity(ctx.Query("period"))
	if granularity == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "period is required"})
		return
	}

	startDate, ok := requireDateQuery(ctx, "start_date")
	if !ok {
		return
	}
	endDate, ok := requireDateQuery(ctx, "end_date")
	if !ok {
		return
	}
	productID, ok := parseUUIDQuery(ctx, "product_id")
	if !ok {
		return
	}
	categoryID, ok := parseUUIDQuery(ctx, "category_id")
	if !ok {
		return
	}

	summary, svcErr := sc.salesService.RevenueSummary(ctx.Request.Context(), startDate, endDate, granularity, productID, categoryID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// RevenueComparison handles GET /reports/revenue/comparison. When
// category_id2 is absent, period 2 reuses category_id1 so a single category
// can be compared across two time ranges.
func (sc *SalesController) RevenueComparison(ctx *gin.Context) {
	p1Start, ok := requireDateQuery(ctx, "p1_start_date")
	if !ok {
		return
	}
	p1End, ok := requireDateQuery(ctx, "p1_end_date")
	if !ok {
		return
	}
	p2Start, ok := requireDateQuery(ctx, "p2_start_date")
	if !ok {
		return
	}
	p2End, ok := requireDateQuery(ctx, "p2_end_date")
	if !ok {
		return
	}
	category1, ok := parseUUIDQuery(ctx, "category_id1")
	if !ok {
		return
	}
	category2, ok := parseUUIDQuery(ctx, "category_id2")
	if !ok {
		return
	}
	if category2 == nil {
		category2 = category1
	}

	periodA := models.ComparisonPeriod{StartDate: p1Start, EndDate: p1End, CategoryID: category1}
	periodB := models.ComparisonPeriod{StartDate: p2Start, EndDate: p2End, CategoryID: category2}

	comparison, svcErr := sc.salesService.RevenueComparison(ctx.Request.Context(), periodA, periodB)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, comparison)
}

// requireDateQuery is parseDateQuery for mandatory parameters.
func requireDateQuery(ctx *gin.Context, name string) (time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is required", name)})
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: expected YYYY-MM-DD", name)})
		return time.Time{}, false
	}
	return t, true
}
