package queries_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	postgresadapter "tagging/internal/adapters/out/postgres"
	"tagging/internal/adapters/out/postgres/testdb"
	"tagging/internal/core/application/usecases/queries"
	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/core/domain/services"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type QueriesTestSuite struct {
	suite.Suite
	db       *gorm.DB
	factory  *postgresadapter.GormUnitOfWorkFactory
	repos    ports.UnitOfWork
	clock    *kernel.FixedClock
	pkg      *catalog.Package
	customer *user.User
	other    *user.User
	admin    *user.User
}

func (suite *QueriesTestSuite) SetupTest() {
	ctx := suite.T().Context()
	suite.db = testdb.SQLite(suite.T())
	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(suite.db)
	suite.repos = suite.factory.Create()
	suite.clock = kernel.NewFixedClock(baseTime)

	suite.customer = suite.addUser("customer", false)
	suite.other = suite.addUser("other", false)
	suite.admin = suite.addUser("admin", true)

	pkg, err := catalog.NewPackage(kernel.NewUUID(), "Standard", kernel.MustMoney("20.00"), 2, 4, "More features", baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.PackageRepository().Add(ctx, pkg))
	suite.pkg = pkg
}

func (suite *QueriesTestSuite) addUser(name string, admin bool) *user.User {
	u, err := user.NewUser(kernel.NewUUID(), name, name+"@example.com", "secret123", admin, baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.UserRepository().Add(suite.T().Context(), u))
	return u
}

func (suite *QueriesTestSuite) placeOrder(owner *user.User, at time.Time) *order.Order {
	tags, err := order.ZipTags([]string{"GG"}, []string{"happy"})
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), owner.ID(), suite.pkg.ID(), suite.pkg.DeliveryDays(), "Emotes", tags, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.OrderRepository().Add(suite.T().Context(), o))
	return o
}

func (suite *QueriesTestSuite) deliver(o *order.Order, at time.Time) {
	f, err := order.NewDeliveryFile("delivery_tags.zip", "tags.zip", 10, at)
	suite.Require().NoError(err)
	_, err = o.Deliver(suite.admin, "done", []order.DeliveryFile{f}, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.OrderRepository().Update(suite.T().Context(), o))
}

func (suite *QueriesTestSuite) completeWithReview(o *order.Order, rating int, at time.Time) {
	suite.deliver(o, at)
	suite.Require().NoError(o.Complete(suite.customer, at))
	r, err := order.NewReview(rating, "nice")
	suite.Require().NoError(err)
	suite.Require().NoError(o.SubmitReview(suite.customer, r))
	suite.Require().NoError(suite.repos.OrderRepository().Update(suite.T().Context(), o))
}

func (suite *QueriesTestSuite) cancel(o *order.Order, owner *user.User, at time.Time) {
	req, err := order.NewCancellationRequest("changed_mind", "")
	suite.Require().NoError(err)
	suite.Require().NoError(o.SubmitRequest(owner, req, at))
	_, err = o.ApproveRequest(suite.admin, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.OrderRepository().Update(suite.T().Context(), o))
}

func (suite *QueriesTestSuite) TestListOrders_ScopesByActorAndStatus() {
	ctx := suite.T().Context()
	mine := suite.placeOrder(suite.customer, baseTime)
	suite.placeOrder(suite.other, baseTime.Add(time.Minute))
	suite.deliver(mine, baseTime.Add(time.Hour))

	handler := queries.NewListOrdersQueryHandler(suite.db)

	query, err := queries.NewListOrdersQuery(suite.customer, nil)
	suite.Require().NoError(err)
	own, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(own, 1)
	suite.Equal(mine.ID(), own[0].ID)
	suite.Equal("customer", own[0].Username)
	suite.Equal("Standard", own[0].PackageName)
	suite.True(own[0].Price.Equal(kernel.MustMoney("20.00")))
	suite.Equal(order.Delivered, own[0].Status)

	query, err = queries.NewListOrdersQuery(suite.admin, nil)
	suite.Require().NoError(err)
	all, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Len(all, 2)

	active := order.Active
	query, err = queries.NewListOrdersQuery(suite.admin, &active)
	suite.Require().NoError(err)
	filtered, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(filtered, 1)
	suite.Equal(suite.other.ID(), filtered[0].UserID)
}

func (suite *QueriesTestSuite) TestListOrders_DeletedPackage() {
	ctx := suite.T().Context()
	suite.placeOrder(suite.customer, baseTime)
	suite.Require().NoError(suite.repos.PackageRepository().Delete(ctx, suite.pkg.ID()))

	query, err := queries.NewListOrdersQuery(suite.customer, nil)
	suite.Require().NoError(err)
	orders, err := queries.NewListOrdersQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(orders, 1)
	suite.Empty(orders[0].PackageName)
	suite.True(orders[0].Price.IsZero())
}

func (suite *QueriesTestSuite) TestGetOrder_VisibleToOwnerAndAdmins() {
	ctx := suite.T().Context()
	o := suite.placeOrder(suite.customer, baseTime)
	suite.deliver(o, baseTime.Add(time.Hour))
	handler := queries.NewGetOrderQueryHandler(suite.factory)

	for _, actor := range []*user.User{suite.customer, suite.admin} {
		query, err := queries.NewGetOrderQuery(actor, o.ID())
		suite.Require().NoError(err)

		resp, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Equal(order.Delivered, resp.Order.Status())
		suite.Len(resp.Order.Deliveries(), 1)
		suite.Len(resp.Order.Tags(), 1)
		suite.Require().NotNil(resp.Package)
		suite.Equal("Standard", resp.Package.Name)
		suite.NotEmpty(resp.Events)
	}

	query, err := queries.NewGetOrderQuery(suite.other, o.ID())
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrNotAuthorized)

	query, err = queries.NewGetOrderQuery(suite.admin, kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesTestSuite) TestGetOrderTimeline_DeliveriesReplaceDeliveredEvents() {
	ctx := suite.T().Context()
	o := suite.placeOrder(suite.customer, baseTime)
	suite.deliver(o, baseTime.Add(time.Hour))

	req, err := order.NewRevisionRequest("bigger font")
	suite.Require().NoError(err)
	suite.Require().NoError(o.SubmitRequest(suite.customer, req, baseTime.Add(2*time.Hour)))
	suite.Require().NoError(suite.repos.OrderRepository().Update(ctx, o))

	query, err := queries.NewGetOrderQuery(suite.customer, o.ID())
	suite.Require().NoError(err)
	resp, err := queries.NewGetOrderTimelineQueryHandler(suite.factory).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(o.ID(), resp.OrderID)
	suite.Require().Len(resp.Entries, 2)
	suite.Equal(services.TimelineDelivery, resp.Entries[0].Kind)
	suite.Equal(services.TimelineEvent, resp.Entries[1].Kind)
	suite.Equal(order.EventRevisionRequested, resp.Entries[1].Event.Type())
}

func (suite *QueriesTestSuite) TestListPackages_CheapestFirst() {
	ctx := suite.T().Context()
	basic, err := catalog.NewPackage(kernel.NewUUID(), "Basic", kernel.MustMoney("10.00"), 1, 2, "", baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.PackageRepository().Add(ctx, basic))

	packages, err := queries.NewListPackagesQueryHandler(suite.factory).Handle(ctx, queries.NewListPackagesQuery())
	suite.Require().NoError(err)

	suite.Require().Len(packages, 2)
	suite.Equal("Basic", packages[0].Name)
	suite.Equal("Standard", packages[1].Name)
}

func (suite *QueriesTestSuite) TestInbox_NotificationsAndUnreadCounts() {
	ctx := suite.T().Context()
	o := suite.placeOrder(suite.customer, baseTime)
	orderID := o.ID()

	for i := range 3 {
		n, err := notification.NewNotification(suite.customer.ID(), &orderID, notification.Delivered,
			"Order Delivered", "done", baseTime.Add(time.Duration(i)*time.Minute))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repos.NotificationRepository().Add(ctx, n))
	}
	m, err := message.NewMessage(o.ID(), o.UserID(), suite.admin, "hello", baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.MessageRepository().Add(ctx, m))

	handler := queries.NewInboxQueryHandler(suite.factory)

	query, err := queries.NewInboxQuery(suite.customer, 2)
	suite.Require().NoError(err)
	notes, err := handler.ListNotifications(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(notes, 2)
	suite.True(notes[0].CreatedAt().After(notes[1].CreatedAt()))

	counts, err := handler.UnreadCounts(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(queries.UnreadCounts{Notifications: 3, Messages: 1}, counts)

	adminQuery, err := queries.NewInboxQuery(suite.admin, 0)
	suite.Require().NoError(err)
	suite.Equal(ports.DefaultNotificationLimit, adminQuery.Limit())
	adminCounts, err := handler.UnreadCounts(ctx, adminQuery)
	suite.Require().NoError(err)
	suite.Equal(queries.UnreadCounts{}, adminCounts)
}

func (suite *QueriesTestSuite) TestListOrderMessages_RequiresAccess() {
	ctx := suite.T().Context()
	o := suite.placeOrder(suite.customer, baseTime)
	m, err := message.NewMessage(o.ID(), o.UserID(), suite.customer, "hi", baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.MessageRepository().Add(ctx, m))

	handler := queries.NewInboxQueryHandler(suite.factory)

	query, err := queries.NewOrderMessagesQuery(suite.admin, o.ID())
	suite.Require().NoError(err)
	messages, err := handler.ListOrderMessages(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 1)
	suite.Equal("hi", messages[0].Text())

	query, err = queries.NewOrderMessagesQuery(suite.other, o.ID())
	suite.Require().NoError(err)
	_, err = handler.ListOrderMessages(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrNotAuthorized)
}

func (suite *QueriesTestSuite) TestAnalytics() {
	ctx := suite.T().Context()
	monthStart := services.MonthStart(baseTime)

	done := suite.placeOrder(suite.customer, monthStart.Add(time.Hour))
	suite.completeWithReview(done, 4, monthStart.Add(2*time.Hour))

	lastMonth := suite.placeOrder(suite.customer, monthStart.AddDate(0, -1, 0))
	suite.completeWithReview(lastMonth, 2, monthStart.Add(-time.Hour))

	cancelled := suite.placeOrder(suite.other, monthStart.Add(time.Hour))
	suite.cancel(cancelled, suite.other, monthStart.Add(3*time.Hour))

	suite.placeOrder(suite.other, baseTime)

	cache := newMemoryCache()
	handler := queries.NewAnalyticsQueryHandler(suite.factory, suite.db, cache, time.Minute, suite.clock)
	query, err := queries.NewAnalyticsQuery(suite.admin, nil, "daily")
	suite.Require().NoError(err)

	stats, err := handler.DashboardStats(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(4, stats.Total)
	suite.Equal(2, stats.Completed)
	suite.Equal(1, stats.Cancelled)
	suite.Equal(1, stats.Active)
	suite.InDelta(3.0, stats.AverageRating, 0.001)
	suite.InDelta(50.0, stats.CompletionRate, 0.001)
	suite.InDelta(25.0, stats.CancellationRate, 0.001)
	suite.Equal(1, cache.sets)

	again, err := handler.DashboardStats(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(stats, again)
	suite.Equal(1, cache.hits)

	suite.Require().NoError(handler.InvalidateDashboards(ctx))
	_, err = handler.DashboardStats(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(2, cache.sets)

	revenue, err := handler.RevenueStats(ctx, query)
	suite.Require().NoError(err)
	suite.True(revenue.Revenue.Equal(kernel.MustMoney("20.00")), revenue.Revenue.String())
	suite.True(revenue.CancelledRevenue.Equal(kernel.MustMoney("20.00")), revenue.CancelledRevenue.String())
	suite.True(revenue.ExpectedEarnings.Equal(kernel.MustMoney("20.00")), revenue.ExpectedEarnings.String())

	chart, err := handler.RevenueChart(ctx, query)
	suite.Require().NoError(err)
	suite.Len(chart, 30)
	suite.Equal("10 Mar", chart[len(chart)-1].Label)

	reviews, err := handler.RecentReviews(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(reviews, 2)
	suite.Equal(done.ID(), reviews[0].OrderID)
	suite.Equal("customer", reviews[0].Username)
	suite.Equal(4, reviews[0].Rating)

	otherID := suite.other.ID()
	scoped, err := queries.NewAnalyticsQuery(suite.admin, &otherID, "yearly")
	suite.Require().NoError(err)
	otherStats, err := handler.DashboardStats(ctx, scoped)
	suite.Require().NoError(err)
	suite.Equal(2, otherStats.Total)
	otherChart, err := handler.RevenueChart(ctx, scoped)
	suite.Require().NoError(err)
	suite.Len(otherChart, 12)
}

func (suite *QueriesTestSuite) TestAnalytics_AdminOnly() {
	_, err := queries.NewAnalyticsQuery(suite.customer, nil, "daily")
	suite.Require().ErrorIs(err, errs.ErrNotAuthorized)
}

func TestQueriesSQLite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}

// memoryCache is an AnalyticsCache backed by a map.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	hits  int
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.items[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		prefix, ok := strings.CutSuffix(k, "*")
		if !ok {
			delete(c.items, k)
			continue
		}
		for key := range c.items {
			if strings.HasPrefix(key, prefix) {
				delete(c.items, key)
			}
		}
	}
	return nil
}
