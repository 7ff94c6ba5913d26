package repository

import (
	"context"

	"admin-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository defines data-access operations for inventory rows and
// the append-only inventory log.
type InventoryRepository interface {
	Create(ctx context.Context, inv *models.Inventory) error
	FindByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	// LockByProductID reads the inventory row under a row-level write lock
	// (SELECT ... FOR UPDATE). Only meaningful inside a transaction.
	LockByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	Update(ctx context.Context, inv *models.Inventory) error
	// DecrementGuarded atomically decrements quantity, refusing to go below
	// zero: the UPDATE carries a quantity >= ? guard and the second return
	// value reports whether a row was actually changed.
	DecrementGuarded(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	DeleteByProductID(ctx context.Context, productID uuid.UUID) error
	FindAll(ctx context.Context, filter models.InventoryFilter, offset, limit int) ([]models.Inventory, int64, error)
	AppendLog(ctx context.Context, log *models.InventoryLog) error
	FindLogs(ctx context.Context, filter models.InventoryLogFilter, offset, limit int) ([]models.InventoryLog, int64, error)
}

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository.
func NewGormInventoryRepository(db *gorm.DB) InventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) Create(ctx context.Context, inv *models.Inventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("product_id = ?", productID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormInventoryRepository) LockByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormInventoryRepository) Update(ctx context.Context, inv *models.Inventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *GormInventoryRepository) DecrementGuarded(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		UpdateColumns(map[string]interface{}{
			"quantity":     gorm.Expr("quantity - ?", qty),
			"last_updated": gorm.Expr("now()"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormInventoryRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.Inventory{}, "product_id = ?", productID).Error
}

func (r *GormInventoryRepository) FindAll(ctx context.Context, filter models.InventoryFilter, offset, limit int) ([]models.Inventory, int64, error) {
	var rows []models.Inventory
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Inventory{})
	if filter.ProductID != nil {
		query = query.Where("inventory.product_id = ?", *filter.ProductID)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN products ON products.id = inventory.product_id").
			Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.LowStock != nil {
		if *filter.LowStock {
			query = query.Where("inventory.quantity <= inventory.low_stock_threshold")
		} else {
			query = query.Where("inventory.quantity > inventory.low_stock_threshold")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Product").
		Order("inventory.product_id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// AppendLog writes one audit row. Logs are append-only; there is no update
// or delete path.
func (r *GormInventoryRepository) AppendLog(ctx context.Context, log *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *GormInventoryRepository) FindLogs(ctx context.Context, filter models.InventoryLogFilter, offset, limit int) ([]models.InventoryLog, int64, error) {
	var logs []models.InventoryLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InventoryLog{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.StartDate != nil {
		query = query.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// Exclusive upper bound; callers convert inclusive dates to the
		// following midnight.
		query = query.Where("timestamp < ?", *filter.EndDate)
	}
	if filter.ReasonContains != "" {
		query = query.Where("reason ILIKE ?", "%"+filter.ReasonContains+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("timestamp DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
