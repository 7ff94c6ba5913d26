package controllers

import (
	"net/http"

	"admin-api/models"
	"admin-api/services"

	"github.com/gin-gonic/gin"
)

// CategoryController handles HTTP requests for category operations.
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController.
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// CreateCategory handles POST /categories.
func (cc *CategoryController) CreateCategory(ctx *gin.Context) {
	var req models.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.categoryService.CreateCategory(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// GetCategory handles GET /categories/:id.
func (cc *CategoryController) GetCategory(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	category, svcErr := cc.categoryService.GetCategory(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// ListCategories handles GET /categories.
func (cc *CategoryController) ListCategories(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	result, svcErr := cc.categoryService.ListCategories(ctx.Request.Context(), page, pageSize)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UpdateCategory handles PATCH /categories/:id.
func (cc *CategoryController) UpdateCategory(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.categoryService.UpdateCategory(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id.
func (cc *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := cc.categoryService.DeleteCategory(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
