package queries

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrAnalyticsQueryIsNotConstructed = errors.New(
	"AnalyticsQuery must be created via NewAnalyticsQuery constructor",
)

// RecentReviewsLimit is the length of the reviews feed.
const RecentReviewsLimit = 12

// AnalyticsQuery scopes the admin statistics to one customer when UserID is
// set and to the whole shop otherwise.
//
// Example:
//
//	query, err := NewAnalyticsQuery(admin, nil, "yearly")
//	chart, err := handler.RevenueChart(ctx, query)
type AnalyticsQuery struct {
	actor  order.Actor
	userID *kernel.UUID
	rng    services.ChartRange

	guard guard.ConstructorGuard
}

// NewAnalyticsQuery accepts any chart range string; unknown values mean daily.
func NewAnalyticsQuery(actor order.Actor, userID *kernel.UUID, chartRange string) (AnalyticsQuery, error) {
	if err := validateActor(actor); err != nil {
		return AnalyticsQuery{}, err
	}
	if !actor.IsAdmin() {
		return AnalyticsQuery{}, errs.NewNotAuthorizedError("view analytics")
	}
	if userID != nil {
		if err := userID.Validate(); err != nil {
			return AnalyticsQuery{}, errs.NewValueIsInvalidErrorWithCause("user", err)
		}
	}
	return AnalyticsQuery{
		actor:  actor,
		userID: userID,
		rng:    services.ParseChartRange(chartRange),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q AnalyticsQuery) Validate() error {
	return q.guard.Validate(ErrAnalyticsQueryIsNotConstructed)
}

func (q AnalyticsQuery) Actor() order.Actor              { return q.actor }
func (q AnalyticsQuery) UserID() *kernel.UUID            { return q.userID }
func (q AnalyticsQuery) ChartRange() services.ChartRange { return q.rng }

// RevenueStats sums package prices. Revenue and CancelledRevenue cover the
// current calendar month; ExpectedEarnings covers every order still in
// progress.
type RevenueStats struct {
	Revenue          kernel.Money
	CancelledRevenue kernel.Money
	ExpectedEarnings kernel.Money
}

// ReviewView is a review with the name of its author. Username is empty when
// the author was deleted.
type ReviewView struct {
	services.Review
	Username string
}
