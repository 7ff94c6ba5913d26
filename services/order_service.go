package services

import (
	"context"
	"fmt"
	"sort"

	"admin-api/apperrors"
	"admin-api/models"
	"admin-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxFulfillmentRetries bounds automatic retries of the whole fulfillment
// unit after a detected concurrency conflict.
const maxFulfillmentRetries = 3

// OrderService coordinates order fulfillment: it validates requested lines,
// reserves stock through the inventory ledger, and persists the order with
// its inventory effects as one atomic unit.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *apperrors.Error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *apperrors.Error)
	ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) (*models.Page[models.Order], *apperrors.Error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, *apperrors.Error)
}

type orderServiceImpl struct {
	store  repository.Store
	logger *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(store repository.Store, logger *zap.Logger) OrderService {
	return &orderServiceImpl{store: store, logger: logger}
}

// CreateOrder creates an order from the requested lines. All-or-nothing: if
// any line's product is missing or its requested quantity exceeds available
// stock, nothing is persisted. Inventory rows are locked in product-id order
// for the whole check-and-decrement window, so two concurrent orders can
// never both pass the availability check and drive stock negative. A
// conflict detected by the guarded decrement retries the whole unit a
// bounded number of times.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *apperrors.Error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("order must contain at least one item")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.Validation(fmt.Sprintf("quantity for product %s must be greater than zero", line.ProductID))
		}
	}

	var order *models.Order
	var appErr *apperrors.Error

	for attempt := 0; attempt <= maxFulfillmentRetries; attempt++ {
		order, appErr = s.tryCreateOrder(ctx, req)
		if appErr == nil {
			break
		}
		if appErr.Kind != apperrors.KindConcurrencyConflict {
			return nil, appErr
		}
		s.logger.Warn("order fulfillment conflict, retrying",
			zap.Int("attempt", attempt+1),
		)
	}
	if appErr != nil {
		return nil, appErr
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(order.Items)),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	return order, nil
}

func (s *orderServiceImpl) tryCreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *apperrors.Error) {
	var created *models.Order
	var appErr *apperrors.Error

	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		// Lock every touched inventory row first, in product-id order, so
		// concurrent orders over overlapping product sets cannot deadlock.
		productIDs := uniqueProductIDs(req.Items)
		locked := make(map[uuid.UUID]*models.Inventory, len(productIDs))
		products := make(map[uuid.UUID]*models.Product, len(productIDs))
		for _, pid := range productIDs {
			product, err := tx.Products().FindByID(ctx, pid)
			if err != nil {
				appErr = notFoundOr(err, fmt.Sprintf("product %s not found", pid))
				return appErr
			}
			inv, err := tx.Inventory().LockByProductID(ctx, pid)
			if err != nil {
				appErr = notFoundOr(err, fmt.Sprintf("inventory record for product %s not found", pid))
				return appErr
			}
			products[pid] = product
			locked[pid] = inv
		}

		// Availability check against the locked quantities, accounting for
		// repeated lines of the same product.
		remaining := make(map[uuid.UUID]int, len(locked))
		for pid, inv := range locked {
			remaining[pid] = inv.Quantity
		}
		for _, line := range req.Items {
			if remaining[line.ProductID] < line.Quantity {
				appErr = apperrors.StockUnavailable(fmt.Sprintf(
					"not enough stock for product %q (%s): available %d, requested %d",
					products[line.ProductID].Name, line.ProductID,
					locked[line.ProductID].Quantity, line.Quantity,
				))
				return appErr
			}
			remaining[line.ProductID] -= line.Quantity
		}

		// Snapshot prices and compute decimal totals.
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			price := products[line.ProductID].Price
			subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				PriceAtSale: price,
				Subtotal:    subtotal,
			})
		}

		order := &models.Order{
			CustomerName: req.CustomerName,
			Status:       models.OrderStatusCompleted,
			TotalAmount:  total,
			Items:        items,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			appErr = apperrors.Store(err)
			return appErr
		}

		// Apply the decrement per line with the quantity >= ? guard. The
		// rows are already locked, so a zero-row update means an isolation
		// violation; surface it as a conflict so the unit retries.
		running := make(map[uuid.UUID]int, len(locked))
		for pid, inv := range locked {
			running[pid] = inv.Quantity
		}
		for _, line := range req.Items {
			applied, err := tx.Inventory().DecrementGuarded(ctx, line.ProductID, line.Quantity)
			if err != nil {
				appErr = apperrors.Store(err)
				return appErr
			}
			if !applied {
				appErr = apperrors.ConcurrencyConflict(fmt.Sprintf(
					"concurrent stock mutation detected for product %s", line.ProductID,
				))
				return appErr
			}
			running[line.ProductID] -= line.Quantity
			logEntry := &models.InventoryLog{
				ProductID:      line.ProductID,
				ChangeQuantity: -line.Quantity,
				NewQuantity:    running[line.ProductID],
				Reason:         fmt.Sprintf("sale_order_#%s", order.ID),
			}
			if err := tx.Inventory().AppendLog(ctx, logEntry); err != nil {
				appErr = apperrors.Store(err)
				return appErr
			}
		}

		created = order
		return nil
	})
	if txErr != nil {
		if appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Store(txErr)
	}
	return created, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *apperrors.Error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("order %s not found", id))
	}
	s.fillProductNames(ctx, order)
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) (*models.Page[models.Order], *apperrors.Error) {
	orders, total, err := s.store.Orders().FindAll(ctx, filter, offsetFor(page, limit), limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	result := models.NewPage(orders, total, page, limit)
	return &result, nil
}

// UpdateOrderStatus transitions an order between statuses. Allowed moves:
// pending -> completed, and pending or completed -> cancelled. Cancelling
// restores every line's stock through the ledger in the same transaction as
// the status change; a cancelled order can never leave that state, so stock
// is restored at most once.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, *apperrors.Error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid order status %q", status))
	}

	var updated *models.Order
	var appErr *apperrors.Error

	txErr := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().LockByID(ctx, id)
		if err != nil {
			appErr = notFoundOr(err, fmt.Sprintf("order %s not found", id))
			return appErr
		}

		if order.Status == status {
			appErr = apperrors.Validation(fmt.Sprintf("order %s already has status %q", id, status))
			return appErr
		}
		if order.Status == models.OrderStatusCancelled {
			appErr = apperrors.Validation(fmt.Sprintf("order %s is cancelled and cannot change status", id))
			return appErr
		}
		if status == models.OrderStatusPending {
			appErr = apperrors.Validation("orders cannot return to pending")
			return appErr
		}

		if status == models.OrderStatusCancelled {
			for _, item := range order.Items {
				inv, err := tx.Inventory().LockByProductID(ctx, item.ProductID)
				if err != nil {
					appErr = notFoundOr(err, fmt.Sprintf("inventory record for product %s not found", item.ProductID))
					return appErr
				}
				inv.Quantity += item.Quantity
				if err := tx.Inventory().Update(ctx, inv); err != nil {
					appErr = apperrors.Store(err)
					return appErr
				}
				logEntry := &models.InventoryLog{
					ProductID:      item.ProductID,
					ChangeQuantity: item.Quantity,
					NewQuantity:    inv.Quantity,
					Reason:         fmt.Sprintf("order_%s_cancelled", order.ID),
				}
				if err := tx.Inventory().AppendLog(ctx, logEntry); err != nil {
					appErr = apperrors.Store(err)
					return appErr
				}
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, id, status); err != nil {
			appErr = apperrors.Store(err)
			return appErr
		}
		order.Status = status
		updated = order
		return nil
	})
	if txErr != nil {
		if appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Store(txErr)
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)),
	)
	return updated, nil
}

// fillProductNames decorates order items with product names for responses.
func (s *orderServiceImpl) fillProductNames(ctx context.Context, order *models.Order) {
	names := make(map[uuid.UUID]string)
	for i := range order.Items {
		pid := order.Items[i].ProductID
		name, ok := names[pid]
		if !ok {
			product, err := s.store.Products().FindByID(ctx, pid)
			if err != nil {
				continue
			}
			name = product.Name
			names[pid] = name
		}
		order.Items[i].ProductName = name
	}
}

// uniqueProductIDs returns the distinct product ids of the lines, sorted for
// a deterministic lock order.
func uniqueProductIDs(lines []models.OrderLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
