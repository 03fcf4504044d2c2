package http

import (
	"net/http"

	"tagging/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Analytics handles GET /api/v1/analytics?user_id=&range=daily|yearly and
// returns the whole admin dashboard in one response.
func (s *Server) Analytics(c echo.Context) error {
	userID, err := optionalUUID(c, "user_id")
	if err != nil {
		return err
	}
	query, err := queries.NewAnalyticsQuery(currentUser(c), userID, c.QueryParam("range"))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	s.sweep(ctx)

	stats, err := s.h.Analytics.DashboardStats(ctx, query)
	if err != nil {
		return err
	}
	revenue, err := s.h.Analytics.RevenueStats(ctx, query)
	if err != nil {
		return err
	}
	chart, err := s.h.Analytics.RevenueChart(ctx, query)
	if err != nil {
		return err
	}
	reviews, err := s.h.Analytics.RecentReviews(ctx, query)
	if err != nil {
		return err
	}

	resp := AnalyticsResponse{
		Stats:            toDashboardStatsResponse(stats),
		Revenue:          revenue.Revenue.String(),
		CancelledRevenue: revenue.CancelledRevenue.String(),
		ExpectedEarnings: revenue.ExpectedEarnings.String(),
		Chart:            make([]ChartBucketResponse, 0, len(chart)),
		RecentReviews:    make([]RecentReviewResponse, 0, len(reviews)),
	}
	for _, b := range chart {
		resp.Chart = append(resp.Chart, ChartBucketResponse{
			Label:            b.Label,
			Completed:        b.Completed,
			Revenue:          b.Revenue.String(),
			Cancelled:        b.Cancelled,
			CancelledRevenue: b.CancelledRevenue.String(),
		})
	}
	for _, r := range reviews {
		resp.RecentReviews = append(resp.RecentReviews, RecentReviewResponse{
			OrderID:   r.OrderID.String(),
			Username:  r.Username,
			Rating:    r.Rating,
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
