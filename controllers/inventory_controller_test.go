package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-api/apperrors"
	"admin-api/controllers"
	"admin-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock InventoryService ---

type mockInventoryService struct {
	adjustFn   func(ctx context.Context, productID uuid.UUID, req *models.AdjustInventoryRequest) (*models.InventoryView, *apperrors.Error)
	listFn     func(ctx context.Context, filter models.InventoryFilter, page, limit int) (*models.Page[models.InventoryView], *apperrors.Error)
	listLogsFn func(ctx context.Context, filter models.InventoryLogFilter, page, limit int) (*models.Page[models.InventoryLog], *apperrors.Error)
}

func (m *mockInventoryService) AdjustInventory(ctx context.Context, productID uuid.UUID, req *models.AdjustInventoryRequest) (*models.InventoryView, *apperrors.Error) {
	return m.adjustFn(ctx, productID, req)
}
func (m *mockInventoryService) ListInventory(ctx context.Context, filter models.InventoryFilter, page, limit int) (*models.Page[models.InventoryView], *apperrors.Error) {
	return m.listFn(ctx, filter, page, limit)
}
func (m *mockInventoryService) ListInventoryLogs(ctx context.Context, filter models.InventoryLogFilter, page, limit int) (*models.Page[models.InventoryLog], *apperrors.Error) {
	return m.listLogsFn(ctx, filter, page, limit)
}

func setupInventoryRouter(svc *mockInventoryService) *gin.Engine {
	r := gin.New()
	ic := controllers.NewInventoryController(svc)

	r.GET("/inventory", ic.ListInventory)
	r.GET("/inventory/logs", ic.ListInventoryLogs)
	r.PATCH("/inventory/:product_id", ic.AdjustInventory)
	return r
}

// --- Tests ---

func TestController_AdjustInventory_Success(t *testing.T) {
	productID := uuid.New()
	svc := &mockInventoryService{
		adjustFn: func(_ context.Context, pid uuid.UUID, req *models.AdjustInventoryRequest) (*models.InventoryView, *apperrors.Error) {
			assert.Equal(t, productID, pid)
			assert.NotNil(t, req.QuantityChange)
			return &models.InventoryView{
				ProductID:         pid,
				Quantity:          15,
				LowStockThreshold: 10,
				LastUpdated:       time.Now().UTC(),
			}, nil
		},
	}
	r := setupInventoryRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"quantity_change": 5, "reason": "restock"})
	req := httptest.NewRequest(http.MethodPatch, "/inventory/"+productID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.InventoryView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 15, got.Quantity)
}

func TestController_AdjustInventory_InsufficientStock(t *testing.T) {
	svc := &mockInventoryService{
		adjustFn: func(_ context.Context, _ uuid.UUID, _ *models.AdjustInventoryRequest) (*models.InventoryView, *apperrors.Error) {
			return nil, apperrors.InsufficientStock("insufficient stock")
		},
	}
	r := setupInventoryRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"quantity_change": -50})
	req := httptest.NewRequest(http.MethodPatch, "/inventory/"+uuid.New().String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_stock")
}

func TestController_AdjustInventory_BadProductID(t *testing.T) {
	svc := &mockInventoryService{}
	r := setupInventoryRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"quantity_change": 1})
	req := httptest.NewRequest(http.MethodPatch, "/inventory/not-a-uuid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestController_ListInventory_FiltersParsed(t *testing.T) {
	productID := uuid.New()
	svc := &mockInventoryService{
		listFn: func(_ context.Context, filter models.InventoryFilter, page, limit int) (*models.Page[models.InventoryView], *apperrors.Error) {
			if assert.NotNil(t, filter.LowStock) {
				assert.True(t, *filter.LowStock)
			}
			if assert.NotNil(t, filter.ProductID) {
				assert.Equal(t, productID, *filter.ProductID)
			}
			assert.Equal(t, 2, page)
			assert.Equal(t, 50, limit)
			p := models.NewPage([]models.InventoryView{}, 0, page, limit)
			return &p, nil
		},
	}
	r := setupInventoryRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/inventory?low_stock=true&product_id="+productID.String()+"&page=2&page_size=50", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestController_ListInventoryLogs_DateRange(t *testing.T) {
	svc := &mockInventoryService{
		listLogsFn: func(_ context.Context, filter models.InventoryLogFilter, _, _ int) (*models.Page[models.InventoryLog], *apperrors.Error) {
			if assert.NotNil(t, filter.StartDate) {
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
			}
			// The inclusive end date arrives as the following midnight.
			if assert.NotNil(t, filter.EndDate) {
				assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *filter.EndDate)
			}
			p := models.NewPage([]models.InventoryLog{}, 0, 1, 20)
			return &p, nil
		},
	}
	r := setupInventoryRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/inventory/logs?start_date=2024-01-01&end_date=2024-01-31", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestController_ListInventoryLogs_MalformedDate(t *testing.T) {
	svc := &mockInventoryService{}
	r := setupInventoryRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/inventory/logs?start_date=31-01-2024", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
