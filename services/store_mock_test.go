package services_test

import (
	"context"
	"sync"
	"time"

	"admin-api/models"
	"admin-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memStore is an in-memory Store for service tests. Transaction serializes
// concurrent units through one mutex, standing in for the row locks the real
// store takes, so the fulfillment concurrency tests exercise the same
// check-then-decrement window the database enforces.
type memStore struct {
	mu sync.Mutex

	categories map[uuid.UUID]*models.Category
	products   map[uuid.UUID]*models.Product
	inventory  map[uuid.UUID]*models.Inventory // keyed by product id
	logs       []models.InventoryLog
	orders     map[uuid.UUID]*models.Order

	// Canned reporting data, keyed by the range start's Unix timestamp.
	periodRows   []repository.PeriodRevenueRow
	totalByStart map[int64]decimal.Decimal
	saleRows     []models.SaleRow
}

func newMemStore() *memStore {
	return &memStore{
		categories:   make(map[uuid.UUID]*models.Category),
		products:     make(map[uuid.UUID]*models.Product),
		inventory:    make(map[uuid.UUID]*models.Inventory),
		orders:       make(map[uuid.UUID]*models.Order),
		totalByStart: make(map[int64]decimal.Decimal),
	}
}

func (m *memStore) Categories() repository.CategoryRepository { return &memCategoryRepo{s: m} }
func (m *memStore) Products() repository.ProductRepository    { return &memProductRepo{s: m} }
func (m *memStore) Inventory() repository.InventoryRepository { return &memInventoryRepo{s: m} }
func (m *memStore) Orders() repository.OrderRepository        { return &memOrderRepo{s: m} }
func (m *memStore) Sales() repository.SalesRepository         { return &memSalesRepo{s: m} }

func (m *memStore) Transaction(_ context.Context, fn func(repository.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

// ---- seeding helpers ----

func (m *memStore) seedCategory(name string) *models.Category {
	c := &models.Category{ID: uuid.New(), Name: name}
	m.categories[c.ID] = c
	return c
}

func (m *memStore) seedProduct(name string, price string, categoryID uuid.UUID) *models.Product {
	p := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
	}
	m.products[p.ID] = p
	return p
}

func (m *memStore) seedInventory(productID uuid.UUID, quantity, threshold int) *models.Inventory {
	inv := &models.Inventory{
		ID:                uuid.New(),
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		LastUpdated:       time.Now().UTC(),
	}
	m.inventory[productID] = inv
	return inv
}

func (m *memStore) logsForProduct(productID uuid.UUID) []models.InventoryLog {
	var out []models.InventoryLog
	for _, l := range m.logs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out
}

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// ---- categories ----

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) Create(_ context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.s.categories[c.ID] = c
	return nil
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memCategoryRepo) FindByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range r.s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategoryRepo) FindAll(_ context.Context, _, _ int) ([]models.Category, int64, error) {
	var out []models.Category
	for _, c := range r.s.categories {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *models.Category) error {
	r.s.categories[c.ID] = c
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r *memCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.s.products {
		if p.CategoryID == id {
			count++
		}
	}
	return count, nil
}

// ---- products ----

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	for _, p := range r.s.products {
		if p.SKU != nil && *p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, _ models.ProductFilter, _, _ int) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range r.s.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Update(_ context.Context, p *models.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) CountOrderItems(_ context.Context, id uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.s.orders {
		for _, item := range o.Items {
			if item.ProductID == id {
				count++
			}
		}
	}
	return count, nil
}

// ---- inventory ----

type memInventoryRepo struct{ s *memStore }

func (r *memInventoryRepo) Create(_ context.Context, inv *models.Inventory) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.s.inventory[inv.ProductID] = inv
	return nil
}

func (r *memInventoryRepo) FindByProductID(_ context.Context, productID uuid.UUID) (*models.Inventory, error) {
	inv, ok := r.s.inventory[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *memInventoryRepo) LockByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	return r.FindByProductID(ctx, productID)
}

func (r *memInventoryRepo) Update(_ context.Context, inv *models.Inventory) error {
	inv.LastUpdated = time.Now().UTC()
	r.s.inventory[inv.ProductID] = inv
	return nil
}

func (r *memInventoryRepo) DecrementGuarded(_ context.Context, productID uuid.UUID, qty int) (bool, error) {
	inv, ok := r.s.inventory[productID]
	if !ok || inv.Quantity < qty {
		return false, nil
	}
	inv.Quantity -= qty
	inv.LastUpdated = time.Now().UTC()
	return true, nil
}

func (r *memInventoryRepo) DeleteByProductID(_ context.Context, productID uuid.UUID) error {
	delete(r.s.inventory, productID)
	return nil
}

func (r *memInventoryRepo) FindAll(_ context.Context, filter models.InventoryFilter, _, _ int) ([]models.Inventory, int64, error) {
	var out []models.Inventory
	for _, inv := range r.s.inventory {
		if filter.ProductID != nil && inv.ProductID != *filter.ProductID {
			continue
		}
		if filter.LowStock != nil && inv.IsLowStock() != *filter.LowStock {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *memInventoryRepo) AppendLog(_ context.Context, log *models.InventoryLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	r.s.logs = append(r.s.logs, *log)
	return nil
}

func (r *memInventoryRepo) FindLogs(_ context.Context, filter models.InventoryLogFilter, _, _ int) ([]models.InventoryLog, int64, error) {
	var out []models.InventoryLog
	for _, l := range r.s.logs {
		if filter.ProductID != nil && l.ProductID != *filter.ProductID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

// ---- orders ----

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	r.s.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *memOrderRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *memOrderRepo) FindAll(_ context.Context, filter models.OrderFilter, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) error {
	o, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

// ---- sales ----

type memSalesRepo struct{ s *memStore }

func (r *memSalesRepo) FindSaleRows(_ context.Context, _ models.SalesFilter, _, _ int) ([]models.SaleRow, int64, error) {
	return r.s.saleRows, int64(len(r.s.saleRows)), nil
}

func (r *memSalesRepo) RevenueByPeriod(_ context.Context, _ models.Granularity, _, _ time.Time, _, _ *uuid.UUID) ([]repository.PeriodRevenueRow, error) {
	return r.s.periodRows, nil
}

func (r *memSalesRepo) RevenueTotal(_ context.Context, start, _ time.Time, _, _ *uuid.UUID) (decimal.Decimal, error) {
	if total, ok := r.s.totalByStart[start.Unix()]; ok {
		return total, nil
	}
	return decimal.Zero, nil
}
