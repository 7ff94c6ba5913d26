package services_test

import (
	"context"
	"sync"
	"testing"

	"admin-api/apperrors"
	"admin-api/models"
	"admin-api/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateOrder_Success(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	keyboard := store.seedProduct("Keyboard", "49.99", cat.ID)
	mouse := store.seedProduct("Mouse", "19.99", cat.ID)
	store.seedInventory(keyboard.ID, 10, 5)
	store.seedInventory(mouse.ID, 10, 5)

	svc := services.NewOrderService(store, testLogger())

	order, svcErr := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerName: strPtr("Alice"),
		Items: []models.OrderLine{
			{ProductID: keyboard.ID, Quantity: 2},
			{ProductID: mouse.ID, Quantity: 1},
		},
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("119.97")),
		"total %s", order.TotalAmount)

	// Stock decremented and one sale log per line.
	kbInv, _ := store.Inventory().FindByProductID(context.Background(), keyboard.ID)
	assert.Equal(t, 8, kbInv.Quantity)
	mouseInv, _ := store.Inventory().FindByProductID(context.Background(), mouse.ID)
	assert.Equal(t, 9, mouseInv.Quantity)

	kbLogs := store.logsForProduct(keyboard.ID)
	assert.Len(t, kbLogs, 1)
	assert.Equal(t, -2, kbLogs[0].ChangeQuantity)
	assert.Equal(t, 8, kbLogs[0].NewQuantity)
	assert.Equal(t, "sale_order_#"+order.ID.String(), kbLogs[0].Reason)
}

func TestCreateOrder_PriceSnapshot(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("Headset", "89.50", cat.ID)
	store.seedInventory(product.ID, 10, 5)

	svc := services.NewOrderService(store, testLogger())

	order, svcErr := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: product.ID, Quantity: 3}},
	})
	assert.Nil(t, svcErr)

	// A later price change must not touch the snapshot.
	product.Price = decimal.RequireFromString("120.00")

	persisted, _ := store.Orders().FindByID(context.Background(), order.ID)
	assert.True(t, persisted.Items[0].PriceAtSale.Equal(decimal.RequireFromString("89.50")))
	assert.True(t, persisted.Items[0].Subtotal.Equal(decimal.RequireFromString("268.50")))
}

func TestCreateOrder_DuplicateLinesCountAgainstStock(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("SSD", "99.00", cat.ID)
	store.seedInventory(product.ID, 5, 5)

	svc := services.NewOrderService(store, testLogger())

	// 3 + 3 exceeds the 5 available even though each line alone fits.
	_, svcErr := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{
			{ProductID: product.ID, Quantity: 3},
			{ProductID: product.ID, Quantity: 3},
		},
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, apperrors.KindStockUnavailable, svcErr.Kind)

	inv, _ := store.Inventory().FindByProductID(context.Background(), product.ID)
	assert.Equal(t, 5, inv.Quantity)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_StockUnavailableLeavesNothingBehind(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	inStock := store.seedProduct("In Stock", "10.00", cat.ID)
	scarce := store.seedProduct("Scarce", "10.00", cat.ID)
	store.seedInventory(inStock.ID, 100, 5)
	store.seedInventory(scarce.ID, 1, 5)

	svc := services.NewOrderService(store, testLogger())

	_, svcErr := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{
			{ProductID: inStock.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 5},
		},
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, apperrors.KindStockUnavailable, svcErr.Kind)

	// All-or-nothing: the fulfillable line was not applied either.
	inv, _ := store.Inventory().FindByProductID(context.Background(), inStock.ID)
	assert.Equal(t, 100, inv.Quantity)
	assert.Empty(t, store.logs)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	store := newMemStore()
	svc := services.NewOrderService(store, testLogger())

	_, svcErr := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: uuid.New(), Quantity: 1}},
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, apperrors.KindNotFound, svcErr.Kind)
}

func TestCreateOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("Last Unit", "10.00", cat.ID)
	store.seedInventory(product.ID, 1, 5)

	svc := services.NewOrderService(store, testLogger())

	req := &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: product.ID, Quantity: 1}},
	}

	var wg sync.WaitGroup
	errs := make([]*apperrors.Error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), req)
		}(i)
	}
	wg.Wait()

	// Exactly one order wins the single unit; the loser sees the business
	// error, not a negative quantity.
	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Equal(t, apperrors.KindStockUnavailable, err.Kind)
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, store.orders, 1)

	inv, _ := store.Inventory().FindByProductID(context.Background(), product.ID)
	assert.Equal(t, 0, inv.Quantity)
	assert.Len(t, store.logsForProduct(product.ID), 1)
}

func TestUpdateOrderStatus_CancelRestoresStock(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("Keyboard", "49.99", cat.ID)
	store.seedInventory(product.ID, 10, 5)

	svc := services.NewOrderService(store, testLogger())

	order, svcErr := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: product.ID, Quantity: 4}},
	})
	assert.Nil(t, svcErr)

	updated, svcErr := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	inv, _ := store.Inventory().FindByProductID(context.Background(), product.ID)
	assert.Equal(t, 10, inv.Quantity)

	logs := store.logsForProduct(product.ID)
	assert.Len(t, logs, 2)
	assert.Equal(t, 4, logs[1].ChangeQuantity)
	assert.Equal(t, "order_"+order.ID.String()+"_cancelled", logs[1].Reason)
}

func TestUpdateOrderStatus_CancelledIsTerminal(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("Keyboard", "49.99", cat.ID)
	store.seedInventory(product.ID, 10, 5)

	svc := services.NewOrderService(store, testLogger())

	order, _ := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: product.ID, Quantity: 1}},
	})
	_, svcErr := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	assert.Nil(t, svcErr)

	// A second cancel must not restore stock twice.
	_, svcErr = svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	assert.NotNil(t, svcErr)
	assert.Equal(t, apperrors.KindValidation, svcErr.Kind)

	_, svcErr = svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusCompleted)
	assert.NotNil(t, svcErr)
	assert.Equal(t, apperrors.KindValidation, svcErr.Kind)

	inv, _ := store.Inventory().FindByProductID(context.Background(), product.ID)
	assert.Equal(t, 10, inv.Quantity)
}

func TestUpdateOrderStatus_NoReturnToPending(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("Keyboard", "49.99", cat.ID)
	store.seedInventory(product.ID, 10, 5)

	svc := services.NewOrderService(store, testLogger())

	order, _ := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: product.ID, Quantity: 1}},
	})

	_, svcErr := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusPending)
	assert.NotNil(t, svcErr)
	assert.Equal(t, apperrors.KindValidation, svcErr.Kind)
}

func TestGetOrder_FillsProductNames(t *testing.T) {
	store := newMemStore()
	cat := store.seedCategory("Electronics")
	product := store.seedProduct("Keyboard", "49.99", cat.ID)
	store.seedInventory(product.ID, 10, 5)

	svc := services.NewOrderService(store, testLogger())

	created, _ := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Items: []models.OrderLine{{ProductID: product.ID, Quantity: 1}},
	})

	order, svcErr := svc.GetOrder(context.Background(), created.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, "Keyboard", order.Items[0].ProductName)
}
