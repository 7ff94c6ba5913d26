package repository

import (
	"context"
	"strings"

	"admin-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines data-access operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	FindAll(ctx context.Context, offset, limit int) ([]models.Category, int64, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// GormCategoryRepository implements CategoryRepository using GORM.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository.
func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName retrieves a category by name, case-insensitive.
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) FindAll(ctx context.Context, offset, limit int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Category{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *GormCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountProducts reports how many products reference the category.
func (r *GormCategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
