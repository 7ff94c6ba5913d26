package services

import (
	"time"

	"admin-api/models"
)

// Period math for revenue bucketing. All boundaries are computed in UTC;
// buckets are half-open intervals [start, end). Weeks start Monday, months
// and years follow the calendar, matching Postgres date_trunc.

// truncatePeriod returns the start of the period containing t.
func truncatePeriod(t time.Time, g models.Granularity) time.Time {
	t = t.UTC()
	switch g {
	case models.GranularityWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Monday-anchored: Go numbers Sunday as 0.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case models.GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case models.GranularityAnnually:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// nextPeriod returns the start of the period following the one starting at
// start.
func nextPeriod(start time.Time, g models.Granularity) time.Time {
	switch g {
	case models.GranularityWeekly:
		return start.AddDate(0, 0, 7)
	case models.GranularityMonthly:
		return start.AddDate(0, 1, 0)
	case models.GranularityAnnually:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// periodBuckets enumerates every period overlapping [from, to), ascending,
// as zero-valued revenue buckets. No gaps: a summary over an empty range
// still reports each period with zero revenue and count.
func periodBuckets(from, to time.Time, g models.Granularity) []models.RevenueBucket {
	buckets := []models.RevenueBucket{}
	for start := truncatePeriod(from, g); start.Before(to); start = nextPeriod(start, g) {
		buckets = append(buckets, models.RevenueBucket{
			PeriodStart: start,
			PeriodEnd:   nextPeriod(start, g),
		})
	}
	return buckets
}
