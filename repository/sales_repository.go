package repository

import (
	"context"
	"time"

	"admin-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PeriodRevenueRow is one grouped aggregate returned by RevenueByPeriod.
// Periods with no orders are absent; the service layer fills the gaps.
type PeriodRevenueRow struct {
	PeriodStart time.Time       `gorm:"column:period_start"`
	Revenue     decimal.Decimal `gorm:"column:revenue"`
	OrderCount  int64           `gorm:"column:order_count"`
}

// SalesRepository defines the read-side aggregation queries for reporting.
// Only orders with status 'completed' count toward any revenue figure.
type SalesRepository interface {
	FindSaleRows(ctx context.Context, filter models.SalesFilter, offset, limit int) ([]models.SaleRow, int64, error)
	// RevenueByPeriod returns per-period revenue grouped with date_trunc.
	// Without a product/category filter the basis is order-level
	// SUM(total_amount); with one it is line-level SUM(subtotal) restricted
	// to the matching order items. The two bases must not be conflated.
	RevenueByPeriod(ctx context.Context, g models.Granularity, start, end time.Time, productID, categoryID *uuid.UUID) ([]PeriodRevenueRow, error)
	// RevenueTotal returns the single aggregate for [start, end) under the
	// same basis rules as RevenueByPeriod.
	RevenueTotal(ctx context.Context, start, end time.Time, productID, categoryID *uuid.UUID) (decimal.Decimal, error)
}

// GormSalesRepository implements SalesRepository using GORM.
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository.
func NewGormSalesRepository(db *gorm.DB) SalesRepository {
	return &GormSalesRepository{db: db}
}

func (r *GormSalesRepository) saleRowsQuery(ctx context.Context, filter models.SalesFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("orders.status = ?", models.OrderStatusCompleted)

	if filter.StartDate != nil {
		query = query.Where("orders.order_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("orders.order_date < ?", *filter.EndDate)
	}
	if filter.ProductID != nil {
		query = query.Where("order_items.product_id = ?", *filter.ProductID)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	return query
}

func (r *GormSalesRepository) FindSaleRows(ctx context.Context, filter models.SalesFilter, offset, limit int) ([]models.SaleRow, int64, error) {
	var total int64
	if err := r.saleRowsQuery(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SaleRow
	err := r.saleRowsQuery(ctx, filter).
		Select(`order_items.order_id,
			orders.order_date,
			order_items.product_id,
			products.name AS product_name,
			products.category_id,
			categories.name AS category_name,
			order_items.quantity AS quantity_sold,
			order_items.price_at_sale,
			order_items.subtotal`).
		Order("orders.order_date DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// truncUnits maps granularities to Postgres date_trunc units. date_trunc
// anchors weeks to Monday and months/years to the calendar, matching the
// documented period convention.
var truncUnits = map[models.Granularity]string{
	models.GranularityDaily:    "day",
	models.GranularityWeekly:   "week",
	models.GranularityMonthly:  "month",
	models.GranularityAnnually: "year",
}

func (r *GormSalesRepository) RevenueByPeriod(ctx context.Context, g models.Granularity, start, end time.Time, productID, categoryID *uuid.UUID) ([]PeriodRevenueRow, error) {
	unit := truncUnits[g]
	var rows []PeriodRevenueRow
	var err error

	if productID == nil && categoryID == nil {
		err = r.db.WithContext(ctx).Raw(`
			SELECT date_trunc(?, orders.order_date) AS period_start,
			       COALESCE(SUM(orders.total_amount), 0) AS revenue,
			       COUNT(orders.id) AS order_count
			FROM orders
			WHERE orders.status = ?
			  AND orders.order_date >= ? AND orders.order_date < ?
			GROUP BY period_start
			ORDER BY period_start`,
			unit, models.OrderStatusCompleted, start, end,
		).Scan(&rows).Error
		return rows, err
	}

	query := `
		SELECT date_trunc(?, orders.order_date) AS period_start,
		       COALESCE(SUM(order_items.subtotal), 0) AS revenue,
		       COUNT(DISTINCT orders.id) AS order_count
		FROM order_items
		JOIN orders ON orders.id = order_items.order_id
		JOIN products ON products.id = order_items.product_id
		WHERE orders.status = ?
		  AND orders.order_date >= ? AND orders.order_date < ?`
	args := []interface{}{unit, models.OrderStatusCompleted, start, end}

	if productID != nil {
		query += ` AND order_items.product_id = ?`
		args = append(args, *productID)
	}
	if categoryID != nil {
		query += ` AND products.category_id = ?`
		args = append(args, *categoryID)
	}
	query += `
		GROUP BY period_start
		ORDER BY period_start`

	err = r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *GormSalesRepository) RevenueTotal(ctx context.Context, start, end time.Time, productID, categoryID *uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}

	if productID == nil && categoryID == nil {
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(orders.total_amount), 0) AS revenue
			FROM orders
			WHERE orders.status = ?
			  AND orders.order_date >= ? AND orders.order_date < ?`,
			models.OrderStatusCompleted, start, end,
		).Scan(&row).Error
		return row.Revenue, err
	}

	query := `
		SELECT COALESCE(SUM(order_items.subtotal), 0) AS revenue
		FROM order_items
		JOIN orders ON orders.id = order_items.order_id
		JOIN products ON products.id = order_items.product_id
		WHERE orders.status = ?
		  AND orders.order_date >= ? AND orders.order_date < ?`
	args := []interface{}{models.OrderStatusCompleted, start, end}

	if productID != nil {
		query += ` AND order_items.product_id = ?`
		args = append(args, *productID)
	}
	if categoryID != nil {
		query += ` AND products.category_id = ?`
		args = append(args, *categoryID)
	}

	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error
	return row.Revenue, err
}
