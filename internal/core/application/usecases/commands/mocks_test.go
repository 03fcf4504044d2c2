package commands_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/core/domain/services"
	"tagging/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByUser(ctx context.Context, userID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetByUserAndStatus(ctx context.Context, userID kernel.UUID, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, userID, status)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetEvents(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error) {
	args := m.Called(ctx, orderID)
	events, _ := args.Get(0).([]*order.Event)
	return events, args.Error(1)
}

func (m *MockOrderRepository) UpdateLateOrders(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) GetAwaitingAutoCompletion(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetCompletedOrders(ctx context.Context, userID *kernel.UUID, since *time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, userID, since)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetRevenue(ctx context.Context, filter ports.RevenueFilter) (kernel.Money, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func (m *MockOrderRepository) GetFacts(ctx context.Context, userID *kernel.UUID) ([]services.OrderFact, error) {
	args := m.Called(ctx, userID)
	facts, _ := args.Get(0).([]services.OrderFact)
	return facts, args.Error(1)
}

func ordersArg(args mock.Arguments, i int) []*order.Order {
	orders, _ := args.Get(i).([]*order.Order)
	return orders
}

type MockPackageRepository struct{ mock.Mock }

func (m *MockPackageRepository) Add(ctx context.Context, p *catalog.Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, p *catalog.Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Package, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*catalog.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) GetAll(ctx context.Context) ([]*catalog.Package, error) {
	args := m.Called(ctx)
	packages, _ := args.Get(0).([]*catalog.Package)
	return packages, args.Error(1)
}

func (m *MockPackageRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetAdmins(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*user.User)
	return users, args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, notes ...*notification.Notification) error {
	return m.Called(ctx, notes).Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*notification.Notification)
	return n, args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) GetByUser(ctx context.Context, userID kernel.UUID, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, userID, limit)
	notes, _ := args.Get(0).([]*notification.Notification)
	return notes, args.Error(1)
}

func (m *MockNotificationRepository) GetUnreadCount(ctx context.Context, userID kernel.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID kernel.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMessageRepository struct{ mock.Mock }

func (m *MockMessageRepository) Add(ctx context.Context, msg *message.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*message.Message, error) {
	args := m.Called(ctx, orderID)
	messages, _ := args.Get(0).([]*message.Message)
	return messages, args.Error(1)
}

func (m *MockMessageRepository) MarkReadForReader(ctx context.Context, orderID, readerID kernel.UUID) (int64, error) {
	args := m.Called(ctx, orderID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) GetUnreadCount(ctx context.Context, userID kernel.UUID, isAdmin bool) (int64, error) {
	args := m.Called(ctx, userID, isAdmin)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) MarkAllRead(ctx context.Context, userID kernel.UUID, isAdmin bool) (int64, error) {
	args := m.Called(ctx, userID, isAdmin)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every unit of work interface of the commands package.
type MockUoW struct {
	mock.Mock
	orders        *MockOrderRepository
	packages      *MockPackageRepository
	users         *MockUserRepository
	notifications *MockNotificationRepository
	messages      *MockMessageRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:        new(MockOrderRepository),
		packages:      new(MockPackageRepository),
		users:         new(MockUserRepository),
		notifications: new(MockNotificationRepository),
		messages:      new(MockMessageRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository               { return m.orders }
func (m *MockUoW) PackageRepository() ports.PackageRepository           { return m.packages }
func (m *MockUoW) UserRepository() ports.UserRepository                 { return m.users }
func (m *MockUoW) NotificationRepository() ports.NotificationRepository { return m.notifications }
func (m *MockUoW) MessageRepository() ports.MessageRepository           { return m.messages }

// expectTx registers Begin, an optional Commit and the deferred Rollback.
func (m *MockUoW) expectTx(ctx context.Context, commit bool) {
	m.On("Begin", ctx).Return(nil)
	if commit {
		m.On("Commit", ctx).Return(nil).Once()
	}
	m.On("Rollback", ctx).Return(nil)
}

func (m *MockUoW) assertExpectations(t *testing.T) {
	t.Helper()
	mock.AssertExpectationsForObjects(t, m, m.orders, m.packages, m.users, m.notifications, m.messages)
}

// mockFactory hands out the same MockUoW for every unit of work kind.
type mockFactory struct {
	mock.Mock
	uow *MockUoW
}

func newMockFactory(uow *MockUoW) *mockFactory {
	f := &mockFactory{uow: uow}
	f.On("Create").Return()
	return f
}

func (f *mockFactory) create() *MockUoW {
	f.MethodCalled("Create")
	return f.uow
}

type (
	orderFactory   struct{ *mockFactory }
	inboxFactory   struct{ *mockFactory }
	catalogFactory struct{ *mockFactory }
	userFactory    struct{ *mockFactory }
	fullFactory    struct{ *mockFactory }
)

func (f orderFactory) Create() commands.OrderUoW     { return f.create() }
func (f inboxFactory) Create() commands.InboxUoW     { return f.create() }
func (f catalogFactory) Create() commands.CatalogUoW { return f.create() }
func (f userFactory) Create() commands.UserUoW       { return f.create() }
func (f fullFactory) Create() commands.UoW           { return f.create() }

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) Save(ctx context.Context, r io.Reader, originalName, prefix string, owner *kernel.UUID) (ports.StoredFile, error) {
	args := m.Called(ctx, r, originalName, prefix, owner)
	return args.Get(0).(ports.StoredFile), args.Error(1)
}

func (m *MockFileStorage) Path(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Exists(name string) bool {
	return m.Called(name).Bool(0)
}

type MockTaskScheduler struct{ mock.Mock }

func (m *MockTaskScheduler) ScheduleAutoCompletion(ctx context.Context, orderID kernel.UUID, delay time.Duration) error {
	return m.Called(ctx, orderID, delay).Error(0)
}

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newUser(t *testing.T, name string, admin bool) *user.User {
	t.Helper()

	u, err := user.NewUser(kernel.NewUUID(), name, name+"@example.com", "secret123", admin, baseTime)
	require.NoError(t, err)
	return u
}

func activeOrder(t *testing.T, owner *user.User) *order.Order {
	t.Helper()

	tags, err := order.ZipTags([]string{"GG"}, []string{"happy"})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), owner.ID(), kernel.NewUUID(), 3, "Emotes", tags, baseTime)
	require.NoError(t, err)
	o.MarkCommitted(0)
	return o
}

func deliveredOrder(t *testing.T, owner, admin *user.User, at time.Time) *order.Order {
	t.Helper()

	o := activeOrder(t, owner)
	f, err := order.NewDeliveryFile("delivery_tags.zip", "tags.zip", 10, at)
	require.NoError(t, err)
	_, err = o.Deliver(admin, "done", []order.DeliveryFile{f}, at)
	require.NoError(t, err)
	o.MarkCommitted(1)
	return o
}

// notesTo matches a notification batch addressed to exactly the given users.
func notesTo(kind notification.Type, recipients ...kernel.UUID) any {
	return mock.MatchedBy(func(notes []*notification.Notification) bool {
		if len(notes) != len(recipients) {
			return false
		}
		for i, n := range notes {
			if n.Type() != kind || !n.RecipientID().IsEqual(recipients[i]) {
				return false
			}
		}
		return true
	})
}

func upload(name string) commands.Upload {
	return commands.Upload{Filename: name, Content: strings.NewReader("payload")}
}
