package services

import (
	"context"
	"errors"
	"fmt"

	"admin-api/apperrors"
	"admin-api/models"
	"admin-api/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService manages product categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *apperrors.Error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, *apperrors.Error)
	ListCategories(ctx context.Context, page, limit int) (*models.Page[models.Category], *apperrors.Error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, *apperrors.Error)
	DeleteCategory(ctx context.Context, id uuid.UUID) *apperrors.Error
}

type categoryServiceImpl struct {
	store  repository.Store
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store repository.Store, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{store: store, logger: logger}
}

// CreateCategory creates a category. Names are unique case-insensitively.
func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *apperrors.Error) {
	if _, err := s.store.Categories().FindByName(ctx, req.Name); err == nil {
		return nil, apperrors.Validation(fmt.Sprintf("a category named %q already exists", req.Name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Store(err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, apperrors.Store(err)
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)
	return category, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, *apperrors.Error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("category %s not found", id))
	}
	return category, nil
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, page, limit int) (*models.Page[models.Category], *apperrors.Error) {
	categories, total, err := s.store.Categories().FindAll(ctx, offsetFor(page, limit), limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	result := models.NewPage(categories, total, page, limit)
	return &result, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, *apperrors.Error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("category %s not found", id))
	}

	if req.Name != nil && *req.Name != category.Name {
		if existing, err := s.store.Categories().FindByName(ctx, *req.Name); err == nil && existing.ID != id {
			return nil, apperrors.Validation(fmt.Sprintf("a category named %q already exists", *req.Name))
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Store(err)
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := s.store.Categories().Update(ctx, category); err != nil {
		return nil, apperrors.Store(err)
	}
	return category, nil
}

// DeleteCategory removes a category. Categories still referenced by
// products cannot be deleted.
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) *apperrors.Error {
	count, err := s.store.Categories().CountProducts(ctx, id)
	if err != nil {
		return apperrors.Store(err)
	}
	if count > 0 {
		return apperrors.Validation(fmt.Sprintf("category %s is referenced by %d product(s) and cannot be deleted", id, count))
	}

	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return notFoundOr(err, fmt.Sprintf("category %s not found", id))
	}

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}
