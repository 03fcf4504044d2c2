package order_test

import (
	"testing"
	"time"

	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRequestConstructors(t *testing.T) {
	t.Run("should require a cancellation reason", func(t *testing.T) {
		_, err := order.NewCancellationRequest(" ", "message")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should require positive extension days", func(t *testing.T) {
		_, err := order.NewExtensionRequest(0, "reason")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should require revision and dispute messages", func(t *testing.T) {
		_, err := order.NewRevisionRequest("")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = order.NewDisputeRequest("")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject literal requests", func(t *testing.T) {
		o := newTestOrder(t, newCustomer())

		err := o.SubmitRequest(newAdmin(), order.PendingRequest{}, baseTime)

		require.ErrorIs(t, err, order.ErrPendingRequestIsNotConstructed)
	})
}

func TestOrder_SubmitRequest(t *testing.T) {
	owner, admin := newCustomer(), newAdmin()

	t.Run("should open a dispute and record the event", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewCancellationRequest("changed plans", "sorry")

		require.NoError(t, o.SubmitRequest(owner, req, baseTime))

		assert.Equal(t, order.InDispute, o.Status())
		pending := o.PendingRequest()
		require.NotNil(t, pending)
		assert.Equal(t, order.CancellationRequest, pending.Kind())
		assert.False(t, pending.RaisedByAdmin())
		events := o.UncommittedEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventCancellationRequested, events[0].Type())
		assert.Equal(t, "changed plans", events[0].CancellationReason())
		assert.Equal(t, "sorry", events[0].CancellationMessage())
	})

	t.Run("should stamp admin raised requests", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewDisputeRequest("missing info")

		require.NoError(t, o.SubmitRequest(admin, req, baseTime))

		assert.True(t, o.PendingRequest().RaisedByAdmin())
		assert.Equal(t, []order.EventType{order.EventDisputeOpened}, eventTypes(o))
	})

	t.Run("should reject a second request while one is pending", func(t *testing.T) {
		o := newTestOrder(t, owner)
		first, _ := order.NewDisputeRequest("first")
		second, _ := order.NewCancellationRequest("second", "")
		require.NoError(t, o.SubmitRequest(owner, first, baseTime))

		err := o.SubmitRequest(owner, second, baseTime)

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.Equal(t, order.DisputeRequest, o.PendingRequest().Kind())
	})

	t.Run("should only let owners ask for revisions", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		req, _ := order.NewRevisionRequest("bigger")

		require.ErrorIs(t, o.SubmitRequest(admin, req, baseTime), errs.ErrNotAuthorized)
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))
	})

	t.Run("should reject strangers", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewDisputeRequest("hi")

		require.ErrorIs(t, o.SubmitRequest(newCustomer(), req, baseTime), errs.ErrNotAuthorized)
		assert.Equal(t, order.Active, o.Status())
	})

	t.Run("should reject extensions on delivered orders", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		req, _ := order.NewExtensionRequest(2, "")

		require.ErrorIs(t, o.SubmitRequest(owner, req, baseTime), errs.ErrStateIsInvalid)
	})

	t.Run("should reject requests on terminal orders", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		require.NoError(t, o.Complete(owner, baseTime))
		req, _ := order.NewDisputeRequest("late complaint")

		require.ErrorIs(t, o.SubmitRequest(owner, req, baseTime), errs.ErrStateIsInvalid)
	})
}

func TestOrder_ExtensionDueDate(t *testing.T) {
	owner, admin := newCustomer(), newAdmin()
	due := baseTime.Add(72 * time.Hour)

	t.Run("admin raised extension moves the due date on approval", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewExtensionRequest(2, "busy week")

		require.NoError(t, o.SubmitRequest(admin, req, baseTime))
		assert.Equal(t, due, *o.DueDate())

		_, err := o.ApproveRequest(owner, baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.Active, o.Status())
		assert.Equal(t, due.Add(48*time.Hour), *o.DueDate())
		assert.Equal(t, []order.EventType{
			order.EventExtensionRequested,
			order.EventRequestApproved,
			order.EventDeliveryDateUpdated,
		}, eventTypes(o))
	})

	t.Run("admin raised extension leaves the due date on rejection", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewExtensionRequest(2, "busy week")
		require.NoError(t, o.SubmitRequest(admin, req, baseTime))

		_, err := o.RejectRequest(owner, "", baseTime)

		require.NoError(t, err)
		assert.Equal(t, due, *o.DueDate())
		assert.Equal(t, "Request rejected", o.UncommittedEvents()[1].Message())
	})

	t.Run("owner raised extension moves the due date on submit", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewExtensionRequest(3, "")

		require.NoError(t, o.SubmitRequest(owner, req, baseTime))
		assert.Equal(t, due.Add(72*time.Hour), *o.DueDate())

		_, err := o.ApproveRequest(admin, baseTime)

		require.NoError(t, err)
		assert.Equal(t, due.Add(72*time.Hour), *o.DueDate())
		assert.Equal(t, order.Active, o.Status())
	})

	t.Run("owner raised extension is rolled back on rejection", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewExtensionRequest(3, "")
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))

		_, err := o.RejectRequest(admin, "no", baseTime)

		require.NoError(t, err)
		assert.Equal(t, due, *o.DueDate())
		assert.Equal(t, order.Active, o.Status())
		assert.Equal(t, "no", o.UncommittedEvents()[1].Message())
		assert.Equal(t, 3, o.UncommittedEvents()[1].ExtensionDays())
	})
}

func TestOrder_ResolveAuthorization(t *testing.T) {
	owner, admin := newCustomer(), newAdmin()

	t.Run("should not let the requester resolve their own request", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewCancellationRequest("reason", "")
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))
		before := o.UncommittedEvents()

		_, err := o.ApproveRequest(owner, baseTime)

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Equal(t, order.InDispute, o.Status())
		assert.NotNil(t, o.PendingRequest())
		assert.Equal(t, before, o.UncommittedEvents())
	})

	t.Run("should not let admins resolve admin requests", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewDisputeRequest("reason")
		require.NoError(t, o.SubmitRequest(admin, req, baseTime))

		_, err := o.RejectRequest(newAdmin(), "", baseTime)

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Equal(t, order.InDispute, o.Status())
	})

	t.Run("should not let strangers resolve", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewDisputeRequest("reason")
		require.NoError(t, o.SubmitRequest(admin, req, baseTime))

		_, err := o.ApproveRequest(newCustomer(), baseTime)

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("should treat an admin's own order as owner raised", func(t *testing.T) {
		o := newTestOrder(t, admin)
		req, _ := order.NewDisputeRequest("reason")
		require.NoError(t, o.SubmitRequest(admin, req, baseTime))

		_, err := o.ApproveRequest(admin, baseTime)
		require.ErrorIs(t, err, errs.ErrNotAuthorized)

		_, err = o.ApproveRequest(newAdmin(), baseTime)
		require.NoError(t, err)
	})

	t.Run("should fail without a pending request", func(t *testing.T) {
		o := newTestOrder(t, owner)

		_, err := o.ApproveRequest(admin, baseTime)
		require.ErrorIs(t, err, errs.ErrStateIsInvalid)

		_, err = o.RejectRequest(admin, "", baseTime)
		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
	})
}

func TestOrder_ResolutionOutcomes(t *testing.T) {
	owner, admin := newCustomer(), newAdmin()
	now := baseTime.Add(10 * time.Hour)

	t.Run("approved cancellation cancels", func(t *testing.T) {
		o := newTestOrder(t, owner)
		req, _ := order.NewCancellationRequest("reason", "")
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))

		resolved, err := o.ApproveRequest(admin, now)

		require.NoError(t, err)
		assert.Equal(t, order.CancellationRequest, resolved.Kind())
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, now, *o.CancelledAt())
		assert.Nil(t, o.PendingRequest())
	})

	t.Run("rejected cancellation returns to Active", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		req, _ := order.NewCancellationRequest("reason", "")
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))

		_, err := o.RejectRequest(admin, "", now)

		require.NoError(t, err)
		assert.Equal(t, order.Active, o.Status())
		assert.Nil(t, o.CancelledAt())
	})

	t.Run("approved revision starts a one day cycle and keeps the instructions", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		req, _ := order.NewRevisionRequest("Make it pink")
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))

		_, err := o.ApproveRequest(admin, now)

		require.NoError(t, err)
		assert.Equal(t, order.Revision, o.Status())
		assert.Equal(t, now.Add(24*time.Hour), *o.DueDate())
		assert.Equal(t, "Make it pink", o.RequestMessage())
		assert.Equal(t, "Make it pink", o.RevisionInstructions())
		assert.Nil(t, o.PendingRequest())
	})

	t.Run("rejected revision returns to Delivered", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		req, _ := order.NewRevisionRequest("Make it pink")
		require.NoError(t, o.SubmitRequest(owner, req, baseTime))

		_, err := o.RejectRequest(admin, "It is pink", now)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Empty(t, o.RevisionInstructions())
	})

	t.Run("resolved disputes return to Active", func(t *testing.T) {
		for _, approve := range []bool{true, false} {
			o := deliveredOrder(t, owner, admin)
			req, _ := order.NewDisputeRequest("???")
			require.NoError(t, o.SubmitRequest(owner, req, baseTime))

			var err error
			if approve {
				_, err = o.ApproveRequest(admin, now)
			} else {
				_, err = o.RejectRequest(admin, "", now)
			}

			require.NoError(t, err)
			assert.Equal(t, order.Active, o.Status())
		}
	})

	t.Run("a new request clears retained revision instructions", func(t *testing.T) {
		o := deliveredOrder(t, owner, admin)
		rev, _ := order.NewRevisionRequest("Make it pink")
		require.NoError(t, o.SubmitRequest(owner, rev, baseTime))
		_, err := o.ApproveRequest(admin, now)
		require.NoError(t, err)

		dispute, _ := order.NewDisputeRequest("Where is it")
		require.NoError(t, o.SubmitRequest(owner, dispute, now))

		assert.Equal(t, "Where is it", o.RequestMessage())
		assert.Empty(t, o.RevisionInstructions())
	})
}
