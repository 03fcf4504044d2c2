package services

import (
	"cmp"
	"slices"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderFact is the read model analytics work on: one row per order joined
// with the price of its package.
type OrderFact struct {
	OrderID     kernel.UUID
	UserID      kernel.UUID
	Status      order.Status
	Price       kernel.Money
	Rating      int // 0 when not reviewed
	ReviewText  string
	CreatedAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// DashboardStats counts orders per status. Rates are percentages of the total
// and, like the average rating, rounded to two decimals.
type DashboardStats struct {
	Total            int
	Active           int
	Delivered        int
	Late             int
	Revision         int
	InDispute        int
	Completed        int
	Cancelled        int
	AverageRating    float64
	CompletionRate   float64
	CancellationRate float64
}

// ChartRange selects the bucket layout of the revenue chart.
type ChartRange string

const (
	ChartDaily  ChartRange = "daily"
	ChartYearly ChartRange = "yearly"
)

// ParseChartRange falls back to daily for anything but "yearly".
func ParseChartRange(s string) ChartRange {
	if ChartRange(s) == ChartYearly {
		return ChartYearly
	}
	return ChartDaily
}

// ChartBucket aggregates the orders completed or cancelled within [Start, End).
type ChartBucket struct {
	Label            string
	Start            time.Time
	End              time.Time
	Completed        int
	Revenue          kernel.Money
	Cancelled        int
	CancelledRevenue kernel.Money
}

// Review is one entry of the recent reviews feed.
type Review struct {
	OrderID   kernel.UUID
	UserID    kernel.UUID
	Rating    int
	Text      string
	CreatedAt time.Time
}

const (
	dailyBuckets  = 30
	yearlyBuckets = 12
)

// Analytics computes read-only statistics over order facts.
type Analytics struct{}

func NewAnalytics() Analytics {
	return Analytics{}
}

// DashboardStats counts facts by status. Completion and cancellation rates
// are 0 when there are no orders.
func (Analytics) DashboardStats(facts []OrderFact) DashboardStats {
	var (
		stats      = DashboardStats{Total: len(facts)}
		ratingSum  int
		ratedCount int
	)

	for _, f := range facts {
		switch f.Status { //nolint:exhaustive // Unknown is never persisted
		case order.Active:
			stats.Active++
		case order.Delivered:
			stats.Delivered++
		case order.Late:
			stats.Late++
		case order.Revision:
			stats.Revision++
		case order.InDispute:
			stats.InDispute++
		case order.Completed:
			stats.Completed++
		case order.Cancelled:
			stats.Cancelled++
		}
		if f.Rating > 0 {
			ratingSum += f.Rating
			ratedCount++
		}
	}

	if ratedCount > 0 {
		stats.AverageRating = ratio(ratingSum, ratedCount, 1)
	}
	if stats.Total > 0 {
		stats.CompletionRate = ratio(stats.Completed, stats.Total, 100)
		stats.CancellationRate = ratio(stats.Cancelled, stats.Total, 100)
	}
	return stats
}

// RevenueChart buckets completed and cancelled orders.
//
// Daily yields 30 calendar days ending today, labelled "02 Jan". Yearly yields
// 12 calendar months ending with the current one, labelled "Jan 2006".
// Bucket boundaries use the location of now.
func (Analytics) RevenueChart(facts []OrderFact, rng ChartRange, now time.Time) []ChartBucket {
	buckets := chartBuckets(rng, now)

	for i := range buckets {
		b := &buckets[i]
		for _, f := range facts {
			if f.Status == order.Completed && within(f.CompletedAt, b.Start, b.End) {
				b.Completed++
				b.Revenue = b.Revenue.Add(f.Price)
			}
			if f.Status == order.Cancelled && within(f.CancelledAt, b.Start, b.End) {
				b.Cancelled++
				b.CancelledRevenue = b.CancelledRevenue.Add(f.Price)
			}
		}
	}
	return buckets
}

// RecentReviews returns up to limit reviewed orders, newest order first.
func (Analytics) RecentReviews(facts []OrderFact, limit int) []Review {
	reviews := make([]Review, 0, limit)
	for _, f := range facts {
		if f.Rating == 0 {
			continue
		}
		reviews = append(reviews, Review{
			OrderID:   f.OrderID,
			UserID:    f.UserID,
			Rating:    f.Rating,
			Text:      f.ReviewText,
			CreatedAt: f.CreatedAt,
		})
	}

	slices.SortStableFunc(reviews, func(a, b Review) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}

// MonthStart returns midnight of the first day of the month of t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func chartBuckets(rng ChartRange, now time.Time) []ChartBucket {
	if rng == ChartYearly {
		first := MonthStart(now).AddDate(0, -(yearlyBuckets - 1), 0)
		buckets := make([]ChartBucket, yearlyBuckets)
		for i := range buckets {
			start := first.AddDate(0, i, 0)
			buckets[i] = ChartBucket{Label: start.Format("Jan 2006"), Start: start, End: start.AddDate(0, 1, 0)}
		}
		return buckets
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -(dailyBuckets - 1))
	buckets := make([]ChartBucket, dailyBuckets)
	for i := range buckets {
		start := first.AddDate(0, 0, i)
		buckets[i] = ChartBucket{Label: start.Format("02 Jan"), Start: start, End: start.AddDate(0, 0, 1)}
	}
	return buckets
}

func within(t *time.Time, start, end time.Time) bool {
	return t != nil && !t.Before(start) && t.Before(end)
}

func ratio(part, total int, scale int64) float64 {
	f, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(scale)).
		DivRound(decimal.NewFromInt(int64(total)), 2).
		Float64()
	return f
}
