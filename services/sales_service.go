package services

import (
	"context"
	"fmt"
	"time"

	"admin-api/apperrors"
	"admin-api/models"
	"admin-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesService is the revenue aggregation engine: period rollups over
// arbitrary date ranges and comparisons between two arbitrary periods.
type SalesService interface {
	SalesReport(ctx context.Context, filter models.SalesFilter, page, limit int) (*models.Page[models.SaleRow], *apperrors.Error)
	// RevenueSummary aggregates revenue between the two dates, inclusive,
	// bucketed by granularity. Every bucket overlapping the range is
	// returned ascending by period start; empty periods carry zero revenue
	// and zero order count.
	RevenueSummary(ctx context.Context, startDate, endDate time.Time, g models.Granularity, productID, categoryID *uuid.UUID) (*models.RevenueSummary, *apperrors.Error)
	RevenueComparison(ctx context.Context, periodA, periodB models.ComparisonPeriod) (*models.RevenueComparison, *apperrors.Error)
}

type salesServiceImpl struct {
	store  repository.Store
	logger *zap.Logger
}

// NewSalesService creates a new SalesService.
func NewSalesService(store repository.Store, logger *zap.Logger) SalesService {
	return &salesServiceImpl{store: store, logger: logger}
}

func (s *salesServiceImpl) SalesReport(ctx context.Context, filter models.SalesFilter, page, limit int) (*models.Page[models.SaleRow], *apperrors.Error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, apperrors.Validation("start date cannot be after end date")
	}
	rows, total, err := s.store.Sales().FindSaleRows(ctx, filter, offsetFor(page, limit), limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	result := models.NewPage(rows, total, page, limit)
	return &result, nil
}

func (s *salesServiceImpl) RevenueSummary(ctx context.Context, startDate, endDate time.Time, g models.Granularity, productID, categoryID *uuid.UUID) (*models.RevenueSummary, *apperrors.Error) {
	if !g.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid granularity %q: choose daily, weekly, monthly, or annually", g))
	}
	if startDate.After(endDate) {
		return nil, apperrors.Validation("start date cannot be after end date")
	}

	// The inclusive end date becomes an exclusive midnight bound.
	rangeStart := startDate.UTC()
	rangeEnd := endDate.UTC().AddDate(0, 0, 1)

	rows, err := s.store.Sales().RevenueByPeriod(ctx, g, rangeStart, rangeEnd, productID, categoryID)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	byStart := make(map[int64]repository.PeriodRevenueRow, len(rows))
	for _, row := range rows {
		byStart[row.PeriodStart.UTC().Unix()] = row
	}

	buckets := periodBuckets(rangeStart, rangeEnd, g)
	overall := decimal.Zero
	for i := range buckets {
		if row, ok := byStart[buckets[i].PeriodStart.Unix()]; ok {
			buckets[i].Revenue = row.Revenue
			buckets[i].OrderCount = row.OrderCount
			overall = overall.Add(row.Revenue)
		} else {
			buckets[i].Revenue = decimal.Zero
		}
	}

	return &models.RevenueSummary{
		Granularity:  g,
		Buckets:      buckets,
		OverallTotal: overall,
	}, nil
}

// RevenueComparison totals revenue for two periods and reports the absolute
// and relative change. The relative change is undefined, not an error, when
// period A's total is zero.
func (s *salesServiceImpl) RevenueComparison(ctx context.Context, periodA, periodB models.ComparisonPeriod) (*models.RevenueComparison, *apperrors.Error) {
	if periodA.StartDate.After(periodA.EndDate) || periodB.StartDate.After(periodB.EndDate) {
		return nil, apperrors.Validation("start date cannot be after end date for either period")
	}

	totalA, nameA, appErr := s.periodTotal(ctx, periodA)
	if appErr != nil {
		return nil, appErr
	}
	totalB, nameB, appErr := s.periodTotal(ctx, periodB)
	if appErr != nil {
		return nil, appErr
	}

	delta := totalB.Sub(totalA)
	var deltaPercent *decimal.Decimal
	if !totalA.IsZero() {
		p := delta.Div(totalA).Mul(decimal.NewFromInt(100)).Round(2)
		deltaPercent = &p
	}

	return &models.RevenueComparison{
		PeriodAStart:        periodA.StartDate,
		PeriodAEnd:          periodA.EndDate,
		PeriodARevenue:      totalA,
		PeriodACategoryName: nameA,
		PeriodBStart:        periodB.StartDate,
		PeriodBEnd:          periodB.EndDate,
		PeriodBRevenue:      totalB,
		PeriodBCategoryName: nameB,
		Delta:               delta,
		DeltaPercent:        deltaPercent,
	}, nil
}

func (s *salesServiceImpl) periodTotal(ctx context.Context, period models.ComparisonPeriod) (decimal.Decimal, *string, *apperrors.Error) {
	var categoryName *string
	if period.CategoryID != nil {
		category, err := s.store.Categories().FindByID(ctx, *period.CategoryID)
		if err != nil {
			return decimal.Zero, nil, notFoundOr(err, fmt.Sprintf("category %s not found", *period.CategoryID))
		}
		categoryName = &category.Name
	}

	start := period.StartDate.UTC()
	end := period.EndDate.UTC().AddDate(0, 0, 1)
	total, err := s.store.Sales().RevenueTotal(ctx, start, end, nil, period.CategoryID)
	if err != nil {
		return decimal.Zero, nil, apperrors.Store(err)
	}
	return total, categoryName, nil
}
