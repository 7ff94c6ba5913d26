package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Granularity selects the calendar unit used for revenue bucketing. Buckets
// are half-open intervals [start, end) in UTC; weeks start Monday, months and
// years follow the calendar.
type Granularity string

const (
	GranularityDaily    Granularity = "daily"
	GranularityWeekly   Granularity = "weekly"
	GranularityMonthly  Granularity = "monthly"
	GranularityAnnually Granularity = "annually"
)

// Valid reports whether g is a supported granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityAnnually:
		return true
	}
	return false
}

// SaleRow is one order line joined with its product and category, as
// returned by the sales report.
type SaleRow struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderDate    time.Time       `json:"order_date"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	QuantitySold int             `json:"quantity_sold"`
	PriceAtSale  decimal.Decimal `json:"price_at_sale"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// SalesFilter narrows sales report rows. Filters compose by logical AND.
type SalesFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
}

// RevenueBucket is one period's aggregate in a revenue summary. Periods with
// no matching orders are still returned, with zero revenue and count.
type RevenueBucket struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int64           `json:"order_count"`
}

// RevenueSummary is the full summary response.
type RevenueSummary struct {
	Granularity  Granularity     `json:"granularity"`
	Buckets      []RevenueBucket `json:"data"`
	OverallTotal decimal.Decimal `json:"overall_total_revenue"`
}

// ComparisonPeriod identifies one side of a revenue comparison.
type ComparisonPeriod struct {
	StartDate  time.Time
	EndDate    time.Time
	CategoryID *uuid.UUID
}

// RevenueComparison compares revenue between two arbitrary periods.
// DeltaPercent is nil when period A's total is zero: the relative change is
// undefined, never an error.
type RevenueComparison struct {
	PeriodAStart        time.Time        `json:"period_a_start"`
	PeriodAEnd          time.Time        `json:"period_a_end"`
	PeriodARevenue      decimal.Decimal  `json:"period_a_revenue"`
	PeriodACategoryName *string          `json:"period_a_category_name,omitempty"`
	PeriodBStart        time.Time        `json:"period_b_start"`
	PeriodBEnd          time.Time        `json:"period_b_end"`
	PeriodBRevenue      decimal.Decimal  `json:"period_b_revenue"`
	PeriodBCategoryName *string          `json:"period_b_category_name,omitempty"`
	Delta               decimal.Decimal  `json:"delta"`
	DeltaPercent        *decimal.Decimal `json:"delta_percent"`
}
