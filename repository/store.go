package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles all repositories behind a single unit-of-work boundary.
// Transaction runs fn against a Store whose repositories share one database
// transaction: either every write inside fn commits, or none do.
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Orders() OrderRepository
	Sales() SalesRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}

// GormStore implements Store on a gorm connection or transaction handle.
type GormStore struct {
	db         *gorm.DB
	categories CategoryRepository
	products   ProductRepository
	inventory  InventoryRepository
	orders     OrderRepository
	sales      SalesRepository
}

// NewGormStore creates a Store backed by the given gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:         db,
		categories: &GormCategoryRepository{db: db},
		products:   &GormProductRepository{db: db},
		inventory:  &GormInventoryRepository{db: db},
		orders:     &GormOrderRepository{db: db},
		sales:      &GormSalesRepository{db: db},
	}
}

func (s *GormStore) Categories() CategoryRepository { return s.categories }
func (s *GormStore) Products() ProductRepository    { return s.products }
func (s *GormStore) Inventory() InventoryRepository { return s.inventory }
func (s *GormStore) Orders() OrderRepository        { return s.orders }
func (s *GormStore) Sales() SalesRepository         { return s.sales }

// Transaction executes fn inside a database transaction. fn receives a Store
// bound to that transaction; returning an error rolls everything back.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
