package controllers

import (
	"net/http"

	"admin-api/models"
	"admin-api/services"

	"github.com/gin-gonic/gin"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService services.ProductService
}

// NewProductController creates a new ProductController.
func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// RegisterProduct handles POST /products. The product and its inventory
// record are created atomically.
func (pc *ProductController) RegisterProduct(ctx *gin.Context) {
	var req models.RegisterProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.RegisterProduct(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	product, svcErr := pc.productService.GetProduct(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// ListProducts handles GET /products.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	categoryID, ok := parseUUIDQuery(ctx, "category_id")
	if !ok {
		return
	}
	filter := models.ProductFilter{
		CategoryID:   categoryID,
		NameContains: ctx.Query("name_contains"),
	}

	result, svcErr := pc.productService.ListProducts(ctx.Request.Context(), filter, page, pageSize)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UpdateProduct handles PATCH /products/:id.
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.UpdateProduct(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := pc.productService.DeleteProduct(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
