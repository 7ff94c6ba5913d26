package models

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the stock record for a product, one row per product. The
// quantity column is mutated exclusively through the inventory service so
// that every change produces exactly one InventoryLog row.
type Inventory struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"product_id"`
	Quantity          int       `gorm:"not null;default:0" json:"quantity"`
	LowStockThreshold int       `gorm:"not null;default:10" json:"low_stock_threshold"`
	LastUpdated       time.Time `gorm:"autoUpdateTime" json:"last_updated"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName overrides gorm's pluralized default.
func (Inventory) TableName() string {
	return "inventory"
}

// IsLowStock reports whether the quantity is at or below the threshold.
// Computed on read, never stored.
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// InventoryView is the API representation of an inventory row.
type InventoryView struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LastUpdated       time.Time       `json:"last_updated"`
	IsLowStock        bool            `json:"is_low_stock"`
	Product           *ProductMinimal `json:"product,omitempty"`
}

// View builds the API representation, computing the low-stock flag.
func (i *Inventory) View() InventoryView {
	v := InventoryView{
		ID:                i.ID,
		ProductID:         i.ProductID,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		LastUpdated:       i.LastUpdated,
		IsLowStock:        i.IsLowStock(),
	}
	if i.Product != nil {
		m := i.Product.Minimal()
		v.Product = &m
	}
	return v
}

// InventoryLog is the append-only audit trail of stock changes. Rows are
// never updated or deleted once written.
type InventoryLog struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ChangeQuantity int       `gorm:"not null" json:"change_quantity"`
	NewQuantity    int       `gorm:"not null" json:"new_quantity"`
	Reason         string    `gorm:"type:varchar(255)" json:"reason"`
	Timestamp      time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// AdjustInventoryRequest is the payload for a manual stock adjustment.
// Exactly one of QuantityChange (relative) or AbsoluteQuantity (absolute)
// must be set, unless only the threshold is being updated.
type AdjustInventoryRequest struct {
	QuantityChange    *int    `json:"quantity_change"`
	AbsoluteQuantity  *int    `json:"absolute_quantity" binding:"omitempty,gte=0"`
	LowStockThreshold *int    `json:"low_stock_threshold" binding:"omitempty,gte=0"`
	Reason            *string `json:"reason" binding:"omitempty,max=255"`
	// AllowNegative authorizes this one adjustment to drive quantity below
	// zero. Never a global setting.
	AllowNegative bool `json:"allow_negative"`
}

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	// LowStock filters rows where quantity <= low_stock_threshold when true,
	// the complement when false, no filter when nil.
	LowStock   *bool
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
}

// InventoryLogFilter narrows inventory log listings.
type InventoryLogFilter struct {
	ProductID      *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	ReasonContains string
}
