package repository

import (
	"context"

	"admin-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines data-access operations for orders and their items.
type OrderRepository interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// LockByID reads the order under a row-level write lock, for status
	// transitions. Only meaningful inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindAll(ctx context.Context, filter models.OrderFilter, offset, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, filter models.OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.StartDate != nil {
		query = query.Where("order_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("order_date < ?", *filter.EndDate)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerNameContains != "" {
		query = query.Where("customer_name ILIKE ?", "%"+filter.CustomerNameContains+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Items").
		Order("order_date DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
