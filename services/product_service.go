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

// defaultLowStockThreshold applies when registration omits a threshold.
const defaultLowStockThreshold = 10

// initialStockReason tags the log entry written for opening stock.
const initialStockReason = "Initial stock"

// ProductService manages the product catalog. Registration creates the
// product and its inventory record atomically.
type ProductService interface {
	RegisterProduct(ctx context.Context, req *models.RegisterProductRequest) (*models.Product, *apperrors.Error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *apperrors.Error)
	ListProducts(ctx context.Context, filter models.ProductFilter, page, limit int) (*models.Page[models.Product], *apperrors.Error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *apperrors.Error)
	DeleteProduct(ctx context.Context, id uuid.UUID) *apperrors.Error
}

type productServiceImpl struct {
	store  repository.Store
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(store repository.Store, logger *zap.Logger) ProductService {
	return &productServiceImpl{store: store, logger: logger}
}

// RegisterProduct creates a product together with its inventory record. When
// an initial quantity is supplied the opening stock is logged, so the audit
// trail reconstructs the full quantity history from zero.
func (s *productServiceImpl) RegisterProduct(ctx context.Context, req *models.RegisterProductRequest) (*models.Product, *apperrors.Error) {
	if req.Price.IsNegative() {
		return nil, apperrors.Validation("price must not be negative")
	}
	if req.InitialQuantity < 0 {
		return nil, apperrors.Validation("initial_quantity must not be negative")
	}

	if _, err := s.store.Categories().FindByID(ctx, req.CategoryID); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("category %s not found", req.CategoryID))
	}
	if req.SKU != nil && *req.SKU != "" {
		if _, err := s.store.Products().FindBySKU(ctx, *req.SKU); err == nil {
			return nil, apperrors.Validation(fmt.Sprintf("a product with SKU %q already exists", *req.SKU))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Store(err)
		}
	}

	threshold := defaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	var created *models.Product
	var appErr *apperrors.Error

	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		product := &models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			SKU:         req.SKU,
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			appErr = apperrors.Store(err)
			return appErr
		}

		inv := &models.Inventory{
			ProductID:         product.ID,
			Quantity:          req.InitialQuantity,
			LowStockThreshold: threshold,
		}
		if err := tx.Inventory().Create(ctx, inv); err != nil {
			appErr = apperrors.Store(err)
			return appErr
		}

		if req.InitialQuantity > 0 {
			logEntry := &models.InventoryLog{
				ProductID:      product.ID,
				ChangeQuantity: req.InitialQuantity,
				NewQuantity:    req.InitialQuantity,
				Reason:         initialStockReason,
			}
			if err := tx.Inventory().AppendLog(ctx, logEntry); err != nil {
				appErr = apperrors.Store(err)
				return appErr
			}
		}

		created = product
		return nil
	})
	if txErr != nil {
		if appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Store(txErr)
	}

	s.logger.Info("product registered",
		zap.String("product_id", created.ID.String()),
		zap.String("name", created.Name),
		zap.Int("initial_quantity", req.InitialQuantity),
	)
	return created, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *apperrors.Error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("product %s not found", id))
	}
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter models.ProductFilter, page, limit int) (*models.Page[models.Product], *apperrors.Error) {
	products, total, err := s.store.Products().FindAll(ctx, filter, offsetFor(page, limit), limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	result := models.NewPage(products, total, page, limit)
	return &result, nil
}

// UpdateProduct applies partial updates. Price changes only affect future
// orders: price_at_sale snapshots on existing order items are immutable.
func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *apperrors.Error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("product %s not found", id))
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.Validation("price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.CategoryID != nil {
		if _, err := s.store.Categories().FindByID(ctx, *req.CategoryID); err != nil {
			return nil, notFoundOr(err, fmt.Sprintf("category %s not found", *req.CategoryID))
		}
		product.CategoryID = *req.CategoryID
	}
	if req.SKU != nil {
		if *req.SKU != "" {
			if existing, err := s.store.Products().FindBySKU(ctx, *req.SKU); err == nil && existing.ID != id {
				return nil, apperrors.Validation(fmt.Sprintf("a product with SKU %q already exists", *req.SKU))
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Store(err)
			}
		}
		product.SKU = req.SKU
	}

	product.Category = nil
	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, apperrors.Store(err)
	}
	return product, nil
}

// DeleteProduct removes a product and its inventory row. Products referenced
// by order items cannot be deleted; inventory logs are kept, the audit trail
// is never truncated.
func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *apperrors.Error {
	if _, err := s.store.Products().FindByID(ctx, id); err != nil {
		return notFoundOr(err, fmt.Sprintf("product %s not found", id))
	}

	count, err := s.store.Products().CountOrderItems(ctx, id)
	if err != nil {
		return apperrors.Store(err)
	}
	if count > 0 {
		return apperrors.Validation(fmt.Sprintf("product %s is referenced by %d order item(s) and cannot be deleted", id, count))
	}

	var appErr *apperrors.Error
	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Inventory().DeleteByProductID(ctx, id); err != nil {
			appErr = apperrors.Store(err)
			return appErr
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			appErr = notFoundOr(err, fmt.Sprintf("product %s not found", id))
			return appErr
		}
		return nil
	})
	if txErr != nil {
		if appErr != nil {
			return appErr
		}
		return apperrors.Store(txErr)
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}
