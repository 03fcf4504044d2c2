package orderrepo_test

import (
	"testing"
	"time"

	"tagging/internal/adapters/out/postgres/orderrepo"
	"tagging/internal/adapters/out/postgres/packagerepo"
	"tagging/internal/adapters/out/postgres/testdb"
	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type testActor struct {
	id    kernel.UUID
	admin bool
}

func (a testActor) ID() kernel.UUID { return a.id }
func (a testActor) IsAdmin() bool   { return a.admin }

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// OrderRepositoryTestSuite runs against whatever database openDB returns, so
// the same cases cover sqlite and postgres.
type OrderRepositoryTestSuite struct {
	suite.Suite
	openDB     func() *gorm.DB
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	pkg        *catalog.Package
	owner      testActor
	admin      testActor
}

func (suite *OrderRepositoryTestSuite) SetupTest() {
	suite.db = suite.openDB()
	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)

	pkg, err := catalog.NewPackage(kernel.NewUUID(), "Standard", kernel.MustMoney("19.99"), 3, 5, "", baseTime)
	suite.Require().NoError(err)
	suite.Require().NoError(packagerepo.NewGormPackageRepository(suite.db).Add(suite.T().Context(), pkg))
	suite.pkg = pkg

	suite.owner = testActor{id: kernel.NewUUID()}
	suite.admin = testActor{id: kernel.NewUUID(), admin: true}
}

func (suite *OrderRepositoryTestSuite) TestAdd_PersistsOrderWithTags() {
	ctx := suite.T().Context()
	o := suite.newOrder(baseTime)

	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(o.IsEqual(loaded))
	suite.Equal(order.Active, loaded.Status())
	suite.Equal("Emotes for my channel", loaded.Details())
	suite.Require().Len(loaded.Tags(), 2)
	suite.Equal("GG", loaded.Tags()[0].Name())
	suite.Equal("chill", loaded.Tags()[1].Mood())
	suite.WithinDuration(baseTime.AddDate(0, 0, 3), *loaded.DueDate(), time.Second)
	suite.Equal(0, loaded.Version())
}

func (suite *OrderRepositoryTestSuite) TestGet_UnknownOrder_ReturnsNotFound() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorAs(err, new(*errs.ObjectNotFoundError))
}

func (suite *OrderRepositoryTestSuite) TestUpdate_PersistsDeliveryAndEvents() {
	ctx := suite.T().Context()
	o := suite.newOrder(baseTime)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := o.Deliver(suite.admin, "Here you go", suite.files(), baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Empty(o.UncommittedEvents())
	suite.Equal(1, o.Version())

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, loaded.Status())
	suite.Equal("Here you go", loaded.Response())
	suite.Equal("delivery_20250310130000_tags.zip", loaded.DeliveredFile())
	suite.Require().Len(loaded.Deliveries(), 1)

	d := loaded.LastDelivery()
	suite.Equal(1, d.Number())
	suite.True(d.AdminID().IsEqual(suite.admin.ID()))
	suite.Require().Len(d.Files(), 1)
	suite.Equal("tags.zip", d.Files()[0].OriginalFilename())
	suite.EqualValues(2048, d.Files()[0].Size())

	events, err := suite.repository.GetEvents(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Equal(order.EventDelivered, events[0].Type())
	suite.Equal("Here you go", events[0].Message())
}

func (suite *OrderRepositoryTestSuite) TestUpdate_PendingRequestRoundTrip() {
	ctx := suite.T().Context()
	o := suite.newOrder(baseTime)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	req, err := order.NewExtensionRequest(2, "Need more time")
	suite.Require().NoError(err)
	suite.Require().NoError(o.SubmitRequest(suite.admin, req, baseTime.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InDispute, loaded.Status())
	pending := loaded.PendingRequest()
	suite.Require().NotNil(pending)
	suite.Equal(order.ExtensionRequest, pending.Kind())
	suite.Equal(2, pending.ExtensionDays())
	suite.Equal("Need more time", pending.ExtensionReason())
	suite.True(pending.RaisedByAdmin())

	_, err = loaded.ApproveRequest(suite.owner, baseTime.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	resolved, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Active, resolved.Status())
	suite.Nil(resolved.PendingRequest())
	suite.WithinDuration(baseTime.AddDate(0, 0, 5), *resolved.DueDate(), time.Second)

	events, err := suite.repository.GetEvents(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(events, 3)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_StaleVersion_ReturnsConflict() {
	ctx := suite.T().Context()
	o := suite.newOrder(baseTime)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	_, err = first.Deliver(suite.admin, "first", suite.files(), baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.Deliver(suite.admin, "second", suite.files(), baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)
	suite.Require().Error(err)
	suite.ErrorAs(err, new(*errs.VersionIsInvalidError))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal("first", loaded.Response())
	suite.Len(loaded.Deliveries(), 1)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_UnknownOrder_ReturnsNotFound() {
	o := suite.newOrder(baseTime)
	err := suite.repository.Update(suite.T().Context(), o)
	suite.Require().Error(err)
	suite.ErrorAs(err, new(*errs.ObjectNotFoundError))
}

func (suite *OrderRepositoryTestSuite) TestQueries_FilterByUserAndStatus() {
	ctx := suite.T().Context()
	mine := suite.newOrder(baseTime)
	delivered := suite.newOrder(baseTime.Add(time.Minute))
	other := suite.newOrderFor(testActor{id: kernel.NewUUID()}, baseTime.Add(2*time.Minute))
	for _, o := range []*order.Order{mine, delivered, other} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	_, err := delivered.Deliver(suite.admin, "done", suite.files(), baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, delivered))

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.True(all[0].IsEqual(other), "newest first")

	byUser, err := suite.repository.GetByUser(ctx, suite.owner.ID())
	suite.Require().NoError(err)
	suite.Len(byUser, 2)

	byStatus, err := suite.repository.GetByStatus(ctx, order.Delivered)
	suite.Require().NoError(err)
	suite.Require().Len(byStatus, 1)
	suite.True(byStatus[0].IsEqual(delivered))

	both, err := suite.repository.GetByUserAndStatus(ctx, suite.owner.ID(), order.Active)
	suite.Require().NoError(err)
	suite.Require().Len(both, 1)
	suite.True(both[0].IsEqual(mine))
}

func (suite *OrderRepositoryTestSuite) TestUpdateLateOrders_FlipsBothWays() {
	ctx := suite.T().Context()
	o := suite.newOrder(baseTime)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	changed, err := suite.repository.UpdateLateOrders(ctx, baseTime.AddDate(0, 0, 4))
	suite.Require().NoError(err)
	suite.Equal(1, changed)

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Late, loaded.Status())

	changed, err = suite.repository.UpdateLateOrders(ctx, baseTime.AddDate(0, 0, 4))
	suite.Require().NoError(err)
	suite.Zero(changed, "sweep is idempotent")

	changed, err = suite.repository.UpdateLateOrders(ctx, baseTime.AddDate(0, 0, 1))
	suite.Require().NoError(err)
	suite.Equal(1, changed)

	loaded, err = suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Active, loaded.Status())
}

func (suite *OrderRepositoryTestSuite) TestGetAwaitingAutoCompletion_UsesLatestDelivery() {
	ctx := suite.T().Context()
	o := suite.newOrder(baseTime)
	suite.Require().NoError(suite.repository.Add(ctx, o))
	_, err := o.Deliver(suite.admin, "done", suite.files(), baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, o))

	due, err := suite.repository.GetAwaitingAutoCompletion(ctx, baseTime.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(due, 1)
	suite.True(due[0].IsEqual(o))

	notYet, err := suite.repository.GetAwaitingAutoCompletion(ctx, baseTime.Add(30*time.Minute))
	suite.Require().NoError(err)
	suite.Empty(notYet)
}

func (suite *OrderRepositoryTestSuite) TestRevenueAndFacts() {
	ctx := suite.T().Context()
	completed := suite.newOrder(baseTime)
	cancelled := suite.newOrder(baseTime.Add(time.Minute))
	active := suite.newOrder(baseTime.Add(2 * time.Minute))
	for _, o := range []*order.Order{completed, cancelled, active} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	_, err := completed.Deliver(suite.admin, "done", suite.files(), baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(completed.Complete(suite.owner, baseTime.Add(2*time.Hour)))
	review, err := order.NewReview(4, "Nice")
	suite.Require().NoError(err)
	suite.Require().NoError(completed.SubmitReview(suite.owner, review))
	suite.Require().NoError(suite.repository.Update(ctx, completed))

	req, err := order.NewCancellationRequest("Changed my mind", "Sorry")
	suite.Require().NoError(err)
	suite.Require().NoError(cancelled.SubmitRequest(suite.owner, req, baseTime.Add(time.Hour)))
	_, err = cancelled.ApproveRequest(suite.admin, baseTime.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, cancelled))

	since := baseTime
	revenue, err := suite.repository.GetRevenue(ctx, ports.RevenueFilter{
		Statuses:       []order.Status{order.Completed},
		CompletedSince: &since,
	})
	suite.Require().NoError(err)
	suite.True(kernel.MustMoney("19.99").Equal(revenue), revenue.String())

	cancelledRevenue, err := suite.repository.GetRevenue(ctx, ports.RevenueFilter{
		Statuses:       []order.Status{order.Cancelled},
		CancelledSince: &since,
	})
	suite.Require().NoError(err)
	suite.True(kernel.MustMoney("19.99").Equal(cancelledRevenue), cancelledRevenue.String())

	expected, err := suite.repository.GetRevenue(ctx, ports.RevenueFilter{
		UserID:   ptr(suite.owner.ID()),
		Statuses: []order.Status{order.Active, order.Late},
	})
	suite.Require().NoError(err)
	suite.True(kernel.MustMoney("19.99").Equal(expected), expected.String())

	completedOrders, err := suite.repository.GetCompletedOrders(ctx, ptr(suite.owner.ID()), &since)
	suite.Require().NoError(err)
	suite.Len(completedOrders, 1)

	suite.Require().NoError(packagerepo.NewGormPackageRepository(suite.db).Delete(ctx, suite.pkg.ID()))

	facts, err := suite.repository.GetFacts(ctx, nil)
	suite.Require().NoError(err)
	suite.Require().Len(facts, 3)
	suite.Equal(order.Completed, facts[0].Status)
	suite.Equal(4, facts[0].Rating)
	suite.Equal("Nice", facts[0].ReviewText)
	suite.True(facts[0].Price.IsZero(), "deleted package counts as zero")
}

func (suite *OrderRepositoryTestSuite) newOrder(now time.Time) *order.Order {
	return suite.newOrderFor(suite.owner, now)
}

func (suite *OrderRepositoryTestSuite) newOrderFor(owner testActor, now time.Time) *order.Order {
	tags, err := order.ZipTags([]string{"GG", "Was geht"}, []string{"happy", "chill"})
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), owner.ID(), suite.pkg.ID(), suite.pkg.DeliveryDays(), "Emotes for my channel", tags, now)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryTestSuite) files() []order.DeliveryFile {
	f, err := order.NewDeliveryFile("delivery_20250310130000_tags.zip", "tags.zip", 2048, baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	return []order.DeliveryFile{f}
}

func ptr[T any](v T) *T { return &v }

func (suite *OrderRepositoryTestSuite) TestUpdateLateOrders_SkipsConflictedOrders() {
	ctx := suite.T().Context()
	first := suite.newOrder(baseTime)
	second := suite.newOrder(baseTime.Add(time.Minute))
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	// The first order written by the pass is bumped underneath it.
	var bumped uuid.UUID
	const hook = "test:bump_version"
	suite.Require().NoError(suite.db.Callback().Update().Before("gorm:update").Register(hook, func(tx *gorm.DB) {
		dto, ok := tx.Statement.Dest.(*orderrepo.OrderDTO)
		if !ok || bumped != uuid.Nil {
			return
		}
		bumped = dto.ID
		suite.Require().NoError(tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE orders SET version = version + 1 WHERE id = ?", dto.ID).Error)
	}))
	defer func() { _ = suite.db.Callback().Update().Remove(hook) }()

	changed, err := suite.repository.UpdateLateOrders(ctx, baseTime.AddDate(0, 0, 4))
	suite.Require().NoError(err)
	suite.Equal(1, changed)
	suite.Require().NotEqual(uuid.Nil, bumped)

	late := 0
	for _, o := range []*order.Order{first, second} {
		loaded, getErr := suite.repository.Get(ctx, o.ID())
		suite.Require().NoError(getErr)
		if loaded.Status() == order.Late {
			late++
			suite.NotEqual(bumped, loaded.ID().Bytes())
		}
	}
	suite.Equal(1, late)
}

func TestOrderRepositorySQLite(t *testing.T) {
	suite.Run(t, &OrderRepositoryTestSuite{openDB: func() *gorm.DB { return testdb.SQLite(t) }})
}
