package services

import (
	"context"
	"fmt"

	"admin-api/apperrors"
	"admin-api/models"
	"admin-api/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultAdjustReason tags manual mutations that arrive without a reason.
const defaultAdjustReason = "manual_adjustment"

// InventoryService is the inventory ledger: the only writer of stock
// quantities. Every successful mutation updates the inventory row and
// appends exactly one audit log entry, atomically.
type InventoryService interface {
	AdjustInventory(ctx context.Context, productID uuid.UUID, req *models.AdjustInventoryRequest) (*models.InventoryView, *apperrors.Error)
	ListInventory(ctx context.Context, filter models.InventoryFilter, page, limit int) (*models.Page[models.InventoryView], *apperrors.Error)
	ListInventoryLogs(ctx context.Context, filter models.InventoryLogFilter, page, limit int) (*models.Page[models.InventoryLog], *apperrors.Error)
}

type inventoryServiceImpl struct {
	store  repository.Store
	logger *zap.Logger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(store repository.Store, logger *zap.Logger) InventoryService {
	return &inventoryServiceImpl{store: store, logger: logger}
}

// AdjustInventory applies a relative or absolute stock mutation. A relative
// decrease that would drive the quantity below zero fails with
// InsufficientStock unless the request authorizes negative stock for this
// one call. The quantity update and the log append commit as a unit.
func (s *inventoryServiceImpl) AdjustInventory(ctx context.Context, productID uuid.UUID, req *models.AdjustInventoryRequest) (*models.InventoryView, *apperrors.Error) {
	if req.QuantityChange != nil && req.AbsoluteQuantity != nil {
		return nil, apperrors.Validation("provide either 'quantity_change' or 'absolute_quantity', not both")
	}
	if req.QuantityChange == nil && req.AbsoluteQuantity == nil && req.LowStockThreshold == nil {
		return nil, apperrors.Validation("no update operation specified: provide 'quantity_change', 'absolute_quantity', or 'low_stock_threshold'")
	}
	if req.AbsoluteQuantity != nil && *req.AbsoluteQuantity < 0 {
		return nil, apperrors.Validation("'absolute_quantity' must not be negative")
	}

	reason := defaultAdjustReason
	if req.Reason != nil && *req.Reason != "" {
		reason = *req.Reason
	}

	var result *models.Inventory
	var appErr *apperrors.Error

	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		inv, err := tx.Inventory().LockByProductID(ctx, productID)
		if err != nil {
			appErr = notFoundOr(err, fmt.Sprintf("inventory record for product %s not found", productID))
			return appErr
		}

		newQuantity := inv.Quantity
		if req.QuantityChange != nil {
			newQuantity = inv.Quantity + *req.QuantityChange
			if newQuantity < 0 && !req.AllowNegative {
				appErr = apperrors.InsufficientStock(fmt.Sprintf(
					"insufficient stock for product %s: available %d, change %d",
					productID, inv.Quantity, *req.QuantityChange,
				))
				return appErr
			}
		} else if req.AbsoluteQuantity != nil {
			newQuantity = *req.AbsoluteQuantity
		}

		delta := newQuantity - inv.Quantity
		inv.Quantity = newQuantity
		if req.LowStockThreshold != nil {
			inv.LowStockThreshold = *req.LowStockThreshold
		}

		if err := tx.Inventory().Update(ctx, inv); err != nil {
			appErr = apperrors.Store(err)
			return appErr
		}

		// Exactly one log row per quantity change; threshold-only updates
		// leave the audit trail untouched.
		if delta != 0 {
			logEntry := &models.InventoryLog{
				ProductID:      productID,
				ChangeQuantity: delta,
				NewQuantity:    newQuantity,
				Reason:         reason,
			}
			if err := tx.Inventory().AppendLog(ctx, logEntry); err != nil {
				appErr = apperrors.Store(err)
				return appErr
			}
		}

		result = inv
		return nil
	})
	if txErr != nil {
		if appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Store(txErr)
	}

	s.logger.Info("inventory adjusted",
		zap.String("product_id", productID.String()),
		zap.Int("quantity", result.Quantity),
		zap.String("reason", reason),
	)

	if product, err := s.store.Products().FindByID(ctx, productID); err == nil {
		result.Product = product
	}
	view := result.View()
	return &view, nil
}

func (s *inventoryServiceImpl) ListInventory(ctx context.Context, filter models.InventoryFilter, page, limit int) (*models.Page[models.InventoryView], *apperrors.Error) {
	rows, total, err := s.store.Inventory().FindAll(ctx, filter, offsetFor(page, limit), limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	views := make([]models.InventoryView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].View())
	}
	result := models.NewPage(views, total, page, limit)
	return &result, nil
}

func (s *inventoryServiceImpl) ListInventoryLogs(ctx context.Context, filter models.InventoryLogFilter, page, limit int) (*models.Page[models.InventoryLog], *apperrors.Error) {
	logs, total, err := s.store.Inventory().FindLogs(ctx, filter, offsetFor(page, limit), limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	result := models.NewPage(logs, total, page, limit)
	return &result, nil
}
