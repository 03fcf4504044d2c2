package commands_test

import (
	"errors"
	"testing"
	"time"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validCard = commands.CardDetails{
	Number: "4111 1111 1111 1111",
	Holder: "Jane Doe",
	Expiry: "12/30",
	CVV:    "123",
}

func newPackage(t *testing.T, tagCount int) *catalog.Package {
	t.Helper()

	p, err := catalog.NewPackage(kernel.NewUUID(), "Standard", kernel.MustMoney("20.00"), 2, tagCount, "", baseTime)
	require.NoError(t, err)
	return p
}

func TestCreateOrderCommandHandler(t *testing.T) {
	t.Run("stores the order and notifies every admin", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		pkg := newPackage(t, 2)

		uow := newMockUoW()
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.packages.On("Get", ctx, pkg.ID()).Return(pkg, nil).Once(),
			uow.orders.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
				return o.Status() == order.Active && o.UserID().IsEqual(customer.ID()) && len(o.Tags()) == 2
			})).Return(nil).Once(),
			uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once(),
			uow.notifications.On("Add", ctx, notesTo(notification.OrderPlaced, admin.ID())).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), customer, pkg.ID(), "Emotes",
			[]string{"GG", "WP"}, []string{"happy", "calm"}, validCard)
		require.NoError(t, err)

		handler := commands.NewCreateOrderCommandHandler(fullFactory{newMockFactory(uow)}, kernel.NewFixedClock(baseTime))
		require.NoError(t, handler.Handle(ctx, cmd))
		uow.assertExpectations(t)
	})

	t.Run("rejects more tags than the package allows", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		pkg := newPackage(t, 1)

		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.packages.On("Get", ctx, pkg.ID()).Return(pkg, nil).Once()

		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), customer, pkg.ID(), "Emotes",
			[]string{"GG", "WP"}, []string{"happy", "calm"}, validCard)
		require.NoError(t, err)

		handler := commands.NewCreateOrderCommandHandler(fullFactory{newMockFactory(uow)}, kernel.NewFixedClock(baseTime))
		err = handler.Handle(ctx, cmd)
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		uow.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("fails before opening a transaction on an invalid card", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		factory := newMockFactory(uow)

		card := validCard
		card.Expiry = "01/20"
		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), newUser(t, "customer", false), kernel.NewUUID(),
			"Emotes", nil, nil, card)
		require.NoError(t, err)

		err = commands.NewCreateOrderCommandHandler(fullFactory{factory}, kernel.NewFixedClock(baseTime)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("propagates a missing package", func(t *testing.T) {
		ctx := t.Context()
		pkgID := kernel.NewUUID()
		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.packages.On("Get", ctx, pkgID).Return(nil, errs.NewObjectNotFoundError("package", pkgID)).Once()

		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), newUser(t, "customer", false), pkgID,
			"Emotes", nil, nil, validCard)
		require.NoError(t, err)

		err = commands.NewCreateOrderCommandHandler(fullFactory{newMockFactory(uow)}, kernel.NewFixedClock(baseTime)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		uow.assertExpectations(t)
	})
}

func TestDeliverOrderCommandHandler(t *testing.T) {
	t.Run("stores files, delivers and schedules auto completion", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := activeOrder(t, customer)
		adminID := admin.ID()

		storage := new(MockFileStorage)
		scheduler := new(MockTaskScheduler)
		uow := newMockUoW()

		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			storage.On("Save", ctx, mock.Anything, "tags.zip", commands.DeliveryFilePrefix, &adminID).
				Return(ports.StoredFile{Name: "delivery_tags.zip", OriginalFilename: "tags.zip", Size: 7}, nil).Once(),
			uow.orders.On("Update", ctx, o).Return(nil).Once(),
			uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once(),
			uow.notifications.On("Add", ctx, notesTo(notification.Delivered, customer.ID())).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			scheduler.On("ScheduleAutoCompletion", ctx, o.ID(), order.AutoCompleteGrace).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		cmd, err := commands.NewDeliverOrderCommand(admin, o.ID(), "Here you go", []commands.Upload{upload("tags.zip")})
		require.NoError(t, err)

		handler := commands.NewDeliverOrderCommandHandler(orderFactory{newMockFactory(uow)}, storage, scheduler,
			kernel.NewFixedClock(baseTime), nil)
		require.NoError(t, handler.Handle(ctx, cmd))

		assert.Equal(t, order.Delivered, o.Status())
		require.Len(t, o.Deliveries(), 1)
		assert.Equal(t, "delivery_tags.zip", o.Deliveries()[0].Files()[0].Filename())
		uow.assertExpectations(t)
		storage.AssertExpectations(t)
		scheduler.AssertExpectations(t)
	})

	t.Run("rejects non admins before storing anything", func(t *testing.T) {
		ctx := t.Context()
		storage := new(MockFileStorage)
		factory := newMockFactory(newMockUoW())

		cmd, err := commands.NewDeliverOrderCommand(newUser(t, "customer", false), kernel.NewUUID(), "",
			[]commands.Upload{upload("tags.zip")})
		require.NoError(t, err)

		err = commands.NewDeliverOrderCommandHandler(orderFactory{factory}, storage, nil,
			kernel.NewFixedClock(baseTime), nil).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("rejects a completed order before storing anything", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := deliveredOrder(t, customer, admin, baseTime)
		require.NoError(t, o.Complete(customer, baseTime.Add(time.Hour)))

		storage := new(MockFileStorage)
		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewDeliverOrderCommand(admin, o.ID(), "", []commands.Upload{upload("a.png")})
		require.NoError(t, err)

		factory := newMockFactory(uow)
		err = commands.NewDeliverOrderCommandHandler(orderFactory{factory}, storage, nil,
			kernel.NewFixedClock(baseTime), nil).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		factory.AssertNumberOfCalls(t, "Create", 1)
		uow.assertExpectations(t)
	})

		t.Run("does not schedule when the commit fails", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := activeOrder(t, customer)

		storage := new(MockFileStorage)
		storage.On("Save", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(ports.StoredFile{Name: "delivery_a.png", OriginalFilename: "a.png", Size: 7}, nil)
		scheduler := new(MockTaskScheduler)

		uow := newMockUoW()
		uow.On("Begin", ctx).Return(nil)
		uow.On("Commit", ctx).Return(errors.New("disk full"))
		uow.On("Rollback", ctx).Return(nil)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil)
		uow.orders.On("Update", ctx, o).Return(nil)
		uow.users.On("GetAdmins", ctx).Return([]*user.User{}, nil)
		uow.notifications.On("Add", ctx, mock.Anything).Return(nil)

		cmd, err := commands.NewDeliverOrderCommand(admin, o.ID(), "", []commands.Upload{upload("a.png")})
		require.NoError(t, err)

		err = commands.NewDeliverOrderCommandHandler(orderFactory{newMockFactory(uow)}, storage, scheduler,
			kernel.NewFixedClock(baseTime), nil).Handle(ctx, cmd)
		require.EqualError(t, err, "disk full")
		scheduler.AssertNotCalled(t, "ScheduleAutoCompletion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ignores scheduler failures", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := activeOrder(t, customer)

		storage := new(MockFileStorage)
		storage.On("Save", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(ports.StoredFile{Name: "delivery_a.png", OriginalFilename: "a.png", Size: 7}, nil)
		scheduler := new(MockTaskScheduler)
		scheduler.On("ScheduleAutoCompletion", ctx, o.ID(), order.AutoCompleteGrace).Return(errors.New("redis down"))

		uow := newMockUoW()
		uow.expectTx(ctx, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil)
		uow.orders.On("Update", ctx, o).Return(nil)
		uow.users.On("GetAdmins", ctx).Return([]*user.User{}, nil)
		uow.notifications.On("Add", ctx, mock.Anything).Return(nil)

		cmd, err := commands.NewDeliverOrderCommand(admin, o.ID(), "", []commands.Upload{upload("a.png")})
		require.NoError(t, err)

		err = commands.NewDeliverOrderCommandHandler(orderFactory{newMockFactory(uow)}, storage, scheduler,
			kernel.NewFixedClock(baseTime), nil).Handle(ctx, cmd)
		require.NoError(t, err)
		scheduler.AssertExpectations(t)
	})
}

func TestCompleteOrderCommandHandler(t *testing.T) {
	t.Run("owner completes a delivered order", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := deliveredOrder(t, customer, admin, baseTime)

		uow := newMockUoW()
		uow.expectTx(ctx, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once()
		uow.notifications.On("Add", ctx, notesTo(notification.OrderCompleted, admin.ID())).Return(nil).Once()

		cmd, err := commands.NewCompleteOrderCommand(customer, o.ID())
		require.NoError(t, err)

		clock := kernel.NewFixedClock(baseTime.Add(time.Hour))
		require.NoError(t, commands.NewCompleteOrderCommandHandler(orderFactory{newMockFactory(uow)}, clock).Handle(ctx, cmd))
		assert.Equal(t, order.Completed, o.Status())
		uow.assertExpectations(t)
	})

	t.Run("someone else's order is rejected without writes", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := deliveredOrder(t, customer, admin, baseTime)

		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewCompleteOrderCommand(newUser(t, "stranger", false), o.ID())
		require.NoError(t, err)

		err = commands.NewCompleteOrderCommandHandler(orderFactory{newMockFactory(uow)}, kernel.NewFixedClock(baseTime)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestSubmitReviewCommandHandler(t *testing.T) {
	ctx := t.Context()
	customer := newUser(t, "customer", false)
	admin := newUser(t, "admin", true)
	o := deliveredOrder(t, customer, admin, baseTime)
	require.NoError(t, o.Complete(customer, baseTime))

	uow := newMockUoW()
	uow.expectTx(ctx, true)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()
	uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once()
	uow.notifications.On("Add", ctx, mock.MatchedBy(func(notes []*notification.Notification) bool {
		return len(notes) == 1 && notes[0].Title() == "5-Star Review"
	})).Return(nil).Once()

	cmd, err := commands.NewSubmitReviewCommand(customer, o.ID(), 5, "great")
	require.NoError(t, err)

	require.NoError(t, commands.NewSubmitReviewCommandHandler(orderFactory{newMockFactory(uow)},
		kernel.NewFixedClock(baseTime)).Handle(ctx, cmd))
	require.NotNil(t, o.Review())
	assert.Equal(t, 5, o.Review().Rating())
	uow.assertExpectations(t)
}

func TestSubmitRequestCommandHandler(t *testing.T) {
	t.Run("owner extension notifies the admins and moves the due date", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := activeOrder(t, customer)
		due := *o.DueDate()

		uow := newMockUoW()
		uow.expectTx(ctx, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once()
		uow.notifications.On("Add", ctx, notesTo(notification.ExtensionRequested, admin.ID())).Return(nil).Once()

		req, err := order.NewExtensionRequest(2, "busy")
		require.NoError(t, err)
		cmd, err := commands.NewSubmitRequestCommand(customer, o.ID(), req)
		require.NoError(t, err)

		require.NoError(t, commands.NewSubmitRequestCommandHandler(orderFactory{newMockFactory(uow)},
			kernel.NewFixedClock(baseTime)).Handle(ctx, cmd))
		assert.Equal(t, order.InDispute, o.Status())
		assert.Equal(t, due.AddDate(0, 0, 2), *o.DueDate())
		uow.assertExpectations(t)
	})

	t.Run("admin cancellation notifies the owner", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := activeOrder(t, customer)

		uow := newMockUoW()
		uow.expectTx(ctx, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once()
		uow.notifications.On("Add", ctx, notesTo(notification.CancellationRequested, customer.ID())).Return(nil).Once()

		req, err := order.NewCancellationRequest("out_of_stock", "sorry")
		require.NoError(t, err)
		cmd, err := commands.NewSubmitRequestCommand(admin, o.ID(), req)
		require.NoError(t, err)

		require.NoError(t, commands.NewSubmitRequestCommandHandler(orderFactory{newMockFactory(uow)},
			kernel.NewFixedClock(baseTime)).Handle(ctx, cmd))
		require.NotNil(t, o.PendingRequest())
		assert.True(t, o.PendingRequest().RaisedByAdmin())
		uow.assertExpectations(t)
	})
}

func pendingOrder(t *testing.T, owner *user.User) *order.Order {
	t.Helper()

	o := activeOrder(t, owner)
	req, err := order.NewCancellationRequest("changed_mind", "")
	require.NoError(t, err)
	require.NoError(t, o.SubmitRequest(owner, req, baseTime))
	o.MarkCommitted(1)
	return o
}

func TestResolveRequestCommandHandler(t *testing.T) {
	t.Run("approval cancels and notifies the requester", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := pendingOrder(t, customer)

		uow := newMockUoW()
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			uow.orders.On("Update", ctx, o).Return(nil).Once(),
			uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once(),
			uow.notifications.On("Add", ctx, notesTo(notification.RequestApproved, customer.ID())).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		cmd, err := commands.NewApproveRequestCommand(admin, o.ID())
		require.NoError(t, err)

		require.NoError(t, commands.NewResolveRequestCommandHandler(orderFactory{newMockFactory(uow)},
			kernel.NewFixedClock(baseTime)).Approve(ctx, cmd))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.PendingRequest())
		uow.assertExpectations(t)
	})

	t.Run("rejection quotes the message", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := pendingOrder(t, customer)

		uow := newMockUoW()
		uow.expectTx(ctx, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once()
		uow.notifications.On("Add", ctx, mock.MatchedBy(func(notes []*notification.Notification) bool {
			return len(notes) == 1 && notes[0].Type() == notification.RequestRejected &&
				notes[0].Message() == "Your request for order #"+o.ID().Short()+" has been rejected: almost done"
		})).Return(nil).Once()

		cmd, err := commands.NewRejectRequestCommand(admin, o.ID(), "  almost done ")
		require.NoError(t, err)

		require.NoError(t, commands.NewResolveRequestCommandHandler(orderFactory{newMockFactory(uow)},
			kernel.NewFixedClock(baseTime)).Reject(ctx, cmd))
		assert.Equal(t, order.Active, o.Status())
		uow.assertExpectations(t)
	})

	t.Run("the requester cannot resolve their own request", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		o := pendingOrder(t, customer)

		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewApproveRequestCommand(customer, o.ID())
		require.NoError(t, err)

		err = commands.NewResolveRequestCommandHandler(orderFactory{newMockFactory(uow)},
			kernel.NewFixedClock(baseTime)).Approve(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Equal(t, order.InDispute, o.Status())
	})

	t.Run("losing a concurrent resolution writes no notification", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := pendingOrder(t, customer)

		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(errs.NewVersionIsInvalidError("order")).Once()

		cmd, err := commands.NewRejectRequestCommand(admin, o.ID(), "")
		require.NoError(t, err)

		err = commands.NewResolveRequestCommandHandler(orderFactory{newMockFactory(uow)},
			kernel.NewFixedClock(baseTime)).Reject(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		uow.notifications.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertCalled(t, "Rollback", ctx)
	})
}

func TestSweepOrdersCommandHandler(t *testing.T) {
	t.Run("marks late orders and auto completes stale deliveries", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		now := baseTime.Add(order.AutoCompleteGrace + time.Hour)
		stale := deliveredOrder(t, customer, admin, baseTime)
		raced := deliveredOrder(t, customer, admin, baseTime)

		uow := newMockUoW()
		uow.On("Begin", ctx).Return(nil)
		uow.On("Commit", ctx).Return(nil)
		uow.On("Rollback", ctx).Return(nil)
		uow.orders.On("UpdateLateOrders", ctx, now).Return(2, nil).Once()
		uow.orders.On("GetAwaitingAutoCompletion", ctx, now.Add(-order.AutoCompleteGrace)).
			Return([]*order.Order{stale, raced}, nil).Once()
		uow.orders.On("Get", ctx, stale.ID()).Return(stale, nil).Once()
		uow.orders.On("Get", ctx, raced.ID()).Return(raced, nil).Once()
		uow.orders.On("Update", ctx, stale).Return(nil).Once()
		uow.orders.On("Update", ctx, raced).Return(errs.NewVersionIsInvalidError("order")).Once()
		uow.users.On("GetAdmins", ctx).Return([]*user.User{admin}, nil).Once()
		uow.notifications.On("Add", ctx, mock.MatchedBy(func(notes []*notification.Notification) bool {
			return len(notes) == 2 && notes[0].RecipientID().IsEqual(customer.ID()) &&
				notes[1].RecipientID().IsEqual(admin.ID()) && notes[0].Type() == notification.AutoCompleted
		})).Return(nil).Once()

		handler := commands.NewSweepOrdersCommandHandler(orderFactory{newMockFactory(uow)}, kernel.NewFixedClock(now), nil)
		result, err := handler.Handle(ctx, commands.NewSweepOrdersCommand())
		require.NoError(t, err)

		assert.Equal(t, commands.SweepResult{MarkedLate: 2, AutoCompleted: 1}, result)
		assert.Equal(t, order.Completed, stale.Status())
		uow.assertExpectations(t)
	})

	t.Run("stops when lateness reconciliation fails", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.orders.On("UpdateLateOrders", ctx, baseTime).Return(0, errors.New("boom")).Once()

		handler := commands.NewSweepOrdersCommandHandler(orderFactory{newMockFactory(uow)}, kernel.NewFixedClock(baseTime), nil)
		_, err := handler.Handle(ctx, commands.NewSweepOrdersCommand())
		require.EqualError(t, err, "boom")
		uow.orders.AssertNotCalled(t, "GetAwaitingAutoCompletion", mock.Anything, mock.Anything)
	})
}

func TestAutoCompleteOrderCommandHandler(t *testing.T) {
	t.Run("leaves orders inside the grace period alone", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := deliveredOrder(t, customer, admin, baseTime)

		uow := newMockUoW()
		uow.expectTx(ctx, false)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewAutoCompleteOrderCommand(o.ID())
		require.NoError(t, err)

		clock := kernel.NewFixedClock(baseTime.Add(order.AutoCompleteGrace - time.Minute))
		applied, err := commands.NewAutoCompleteOrderCommandHandler(orderFactory{newMockFactory(uow)}, clock).Handle(ctx, cmd)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, order.Delivered, o.Status())
		uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completes once the grace period passed", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, "customer", false)
		admin := newUser(t, "admin", true)
		o := deliveredOrder(t, customer, admin, baseTime)

		uow := newMockUoW()
		uow.expectTx(ctx, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.users.On("GetAdmins", ctx).Return([]*user.User{}, nil).Once()
		uow.notifications.On("Add", ctx, notesTo(notification.AutoCompleted, customer.ID())).Return(nil).Once()

		cmd, err := commands.NewAutoCompleteOrderCommand(o.ID())
		require.NoError(t, err)

		clock := kernel.NewFixedClock(baseTime.Add(order.AutoCompleteGrace + time.Minute))
		applied, err := commands.NewAutoCompleteOrderCommandHandler(orderFactory{newMockFactory(uow)}, clock).Handle(ctx, cmd)
		require.NoError(t, err)
		assert.True(t, applied)
		uow.assertExpectations(t)
	})
}
