package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Every product owns exactly one Inventory row,
// created in the same transaction as the product itself.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);index;not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	SKU         *string         `gorm:"type:varchar(100);uniqueIndex" json:"sku,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// ProductMinimal is the embedded product view returned inside inventory rows.
type ProductMinimal struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	SKU  *string   `json:"sku,omitempty"`
}

// Minimal returns the reduced view of the product.
func (p *Product) Minimal() ProductMinimal {
	return ProductMinimal{ID: p.ID, Name: p.Name, SKU: p.SKU}
}

// RegisterProductRequest is the payload for registering a new product.
// The product and its inventory record are created atomically.
type RegisterProductRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=255"`
	Description       *string         `json:"description"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	CategoryID        uuid.UUID       `json:"category_id" binding:"required"`
	SKU               *string         `json:"sku" binding:"omitempty,max=100"`
	InitialQuantity   int             `json:"initial_quantity" binding:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" binding:"omitempty,gte=0"`
}

// UpdateProductRequest is the payload for updating a product. Nil fields are
// left unchanged. Price changes never rewrite historical price_at_sale values.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	SKU         *string          `json:"sku" binding:"omitempty,max=100"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID   *uuid.UUID
	NameContains string
}
