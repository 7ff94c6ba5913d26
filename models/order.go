package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a completed sale. Orders and their items are created together,
// atomically, and never mutated afterwards except for status transitions.
type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderDate    time.Time       `gorm:"not null;index;autoCreateTime" json:"order_date"`
	CustomerName *string         `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	Status       OrderStatus     `gorm:"type:varchar(50);not null;default:'completed';index" json:"status"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is a single line of an order. PriceAtSale is a snapshot of the
// product price at order time and never changes, even if the product price
// does. Subtotal is always quantity * price_at_sale.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_at_sale"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`

	ProductName string `gorm:"-" json:"product_name,omitempty"`
}

// OrderLine is one requested (product, quantity) pair in an order creation
// call.
type OrderLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the payload for creating an order.
type CreateOrderRequest struct {
	CustomerName *string     `json:"customer_name" binding:"omitempty,max=255"`
	Items        []OrderLine `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest is the payload for an order status transition.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=pending completed cancelled"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	StartDate            *time.Time
	EndDate              *time.Time
	Status               *OrderStatus
	CustomerNameContains string
}
