package queries

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// inProgress are the statuses counted as expected earnings.
var inProgress = []order.Status{order.Active, order.Revision, order.Delivered, order.InDispute, order.Late}

// AnalyticsQueryHandler computes the admin dashboard. All figures are
// derived from the tables on every call; only DashboardStats is cached, and
// only when a cache is configured.
type AnalyticsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	db         *gorm.DB
	cache      ports.AnalyticsCache
	cacheTTL   time.Duration
	clock      kernel.Clock
	analytics  services.Analytics
}

// NewAnalyticsQueryHandler accepts a nil cache.
func NewAnalyticsQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	db *gorm.DB,
	cache ports.AnalyticsCache,
	cacheTTL time.Duration,
	clock kernel.Clock,
) AnalyticsQueryHandler {
	return AnalyticsQueryHandler{
		uowFactory: uowFactory,
		db:         db,
		cache:      cache,
		cacheTTL:   cacheTTL,
		clock:      clock,
		analytics:  services.NewAnalytics(),
	}
}

func (h AnalyticsQueryHandler) DashboardStats(ctx context.Context, query AnalyticsQuery) (services.DashboardStats, error) {
	if err := query.Validate(); err != nil {
		return services.DashboardStats{}, err
	}

	key := dashboardCacheKey(query.UserID())
	var stats services.DashboardStats
	if h.cache != nil {
		if hit, err := h.cache.GetJSON(ctx, key, &stats); err == nil && hit {
			return stats, nil
		}
	}

	facts, err := h.uowFactory.Create().OrderRepository().GetFacts(ctx, query.UserID())
	if err != nil {
		return services.DashboardStats{}, err
	}
	stats = h.analytics.DashboardStats(facts)

	if h.cache != nil {
		// cache failures are not fatal
		_ = h.cache.SetJSON(ctx, key, stats, h.cacheTTL)
	}
	return stats, nil
}

func (h AnalyticsQueryHandler) RevenueStats(ctx context.Context, query AnalyticsQuery) (RevenueStats, error) {
	if err := query.Validate(); err != nil {
		return RevenueStats{}, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	monthStart := services.MonthStart(h.clock.Now())
	userID := query.UserID()

	revenue, err := repo.GetRevenue(ctx, ports.RevenueFilter{
		UserID:         userID,
		Statuses:       []order.Status{order.Completed},
		CompletedSince: &monthStart,
	})
	if err != nil {
		return RevenueStats{}, err
	}
	cancelled, err := repo.GetRevenue(ctx, ports.RevenueFilter{
		UserID:         userID,
		Statuses:       []order.Status{order.Cancelled},
		CancelledSince: &monthStart,
	})
	if err != nil {
		return RevenueStats{}, err
	}
	expected, err := repo.GetRevenue(ctx, ports.RevenueFilter{UserID: userID, Statuses: inProgress})
	if err != nil {
		return RevenueStats{}, err
	}

	return RevenueStats{Revenue: revenue, CancelledRevenue: cancelled, ExpectedEarnings: expected}, nil
}

func (h AnalyticsQueryHandler) RevenueChart(ctx context.Context, query AnalyticsQuery) ([]services.ChartBucket, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	facts, err := h.uowFactory.Create().OrderRepository().GetFacts(ctx, query.UserID())
	if err != nil {
		return nil, err
	}
	return h.analytics.RevenueChart(facts, query.ChartRange(), h.clock.Now()), nil
}

// RecentReviews returns the newest RecentReviewsLimit reviews with their
// author names.
func (h AnalyticsQueryHandler) RecentReviews(ctx context.Context, query AnalyticsQuery) ([]ReviewView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	facts, err := h.uowFactory.Create().OrderRepository().GetFacts(ctx, query.UserID())
	if err != nil {
		return nil, err
	}
	reviews := h.analytics.RecentReviews(facts, RecentReviewsLimit)

	names, err := h.usernames(ctx, reviews)
	if err != nil {
		return nil, err
	}

	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, ReviewView{Review: r, Username: names[r.UserID]})
	}
	return views, nil
}

func (h AnalyticsQueryHandler) usernames(ctx context.Context, reviews []services.Review) (map[kernel.UUID]string, error) {
	names := make(map[kernel.UUID]string, len(reviews))
	if len(reviews) == 0 {
		return names, nil
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID.Bytes())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			username
		FROM users
		WHERE id IN ?
	`, ids).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			username string
		)
		if err = rows.Scan(&id, &username); err != nil {
			return nil, err
		}
		userID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		names[userID] = username
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// InvalidateDashboards drops every cached dashboard. Called after order
// state changes.
func (h AnalyticsQueryHandler) InvalidateDashboards(ctx context.Context) error {
	if h.cache == nil {
		return nil
	}
	return h.cache.Invalidate(ctx, dashboardCachePrefix+"*")
}

const dashboardCachePrefix = "analytics:dashboard:"

func dashboardCacheKey(userID *kernel.UUID) string {
	if userID == nil {
		return dashboardCachePrefix + "all"
	}
	return dashboardCachePrefix + "user:" + userID.String()
}
