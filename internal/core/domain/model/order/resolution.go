package order

import (
	"errors"
	"time"

	"tagging/internal/pkg/errs"
)

// SubmitRequest raises a resolution request and moves the order to InDispute.
//
// Business rules:
//   - the owner or an admin raises requests; revision requests are owner only
//   - the current status must accept the request kind (see Status.ValidateRequest)
//   - an extension raised by the owner moves the due date immediately; a
//     rejection moves it back
//
// The side that raised the request is stamped on it and decides who may
// resolve it.
func (o *Order) SubmitRequest(actor Actor, req PendingRequest, now time.Time) error {
	if err := req.Validate(); err != nil {
		return err
	}

	isOwner := o.IsOwnedBy(actor)
	isAdmin := actor != nil && actor.IsAdmin()
	if !isOwner && !isAdmin {
		return errs.NewNotAuthorizedError("submit " + req.kind.String() + " request")
	}
	if req.kind == RevisionRequest && !isOwner {
		return errs.NewNotAuthorizedError("submit revision request")
	}

	newStatus, err := o.status.OpenRequest(req.kind)
	if err != nil {
		return err
	}

	// an admin placing their own order acts as the owner
	raised := req.raisedBy(isAdmin && !isOwner)

	if raised.kind == ExtensionRequest && !raised.raisedByAdmin {
		o.shiftDueDate(raised.extensionDays, now)
	}

	o.status = newStatus
	o.pending = &raised
	o.revisionInstructions = ""
	o.record(newEvent(o.id, raised.kind.requestedEventType(), actorID(actor), raised.message, now).withRequest(raised))
	return nil
}

// ApproveRequest accepts the pending request and returns it so callers can
// notify the side that raised it.
//
// Outcomes per kind:
//
//	cancellation     Cancelled, cancelled at now
//	extend_delivery  Active; an admin raised extension moves the due date now
//	revision         Revision, due in 24h, instructions retained
//	dispute          Active
func (o *Order) ApproveRequest(actor Actor, now time.Time) (PendingRequest, error) {
	req, err := o.resolvable(actor, "approve request")
	if err != nil {
		return PendingRequest{}, err
	}

	var target Status
	switch req.kind { //nolint:exhaustive // unknown kinds never reach a pending request
	case CancellationRequest:
		target = Cancelled
	case RevisionRequest:
		target = Revision
	default:
		target = Active
	}

	newStatus, err := o.status.Resolve(target)
	if err != nil {
		return PendingRequest{}, err
	}

	o.status = newStatus
	o.pending = nil
	o.record(newEvent(o.id, EventRequestApproved, actorID(actor), "Request approved", now).withRequest(req))

	switch req.kind { //nolint:exhaustive // remaining kinds have no side effects
	case CancellationRequest:
		o.cancelledAt = &now
	case RevisionRequest:
		due := now.Add(RevisionWindow)
		o.dueDate = &due
		o.revisionInstructions = req.message
	case ExtensionRequest:
		if req.raisedByAdmin {
			o.shiftDueDate(req.extensionDays, now)
			o.record(newEvent(o.id, EventDeliveryDateUpdated, actorID(actor), "Delivery date updated", now).withRequest(req))
		}
	}

	return req, nil
}

// RejectRequest declines the pending request with an optional message and
// returns it.
//
// Outcomes per kind:
//
//	cancellation     Active
//	extend_delivery  Active; an owner raised extension is rolled back
//	revision         Delivered
//	dispute          Active
func (o *Order) RejectRequest(actor Actor, message string, now time.Time) (PendingRequest, error) {
	req, err := o.resolvable(actor, "reject request")
	if err != nil {
		return PendingRequest{}, err
	}

	target := Active
	if req.kind == RevisionRequest {
		target = Delivered
	}

	newStatus, err := o.status.Resolve(target)
	if err != nil {
		return PendingRequest{}, err
	}

	if req.kind == ExtensionRequest && !req.raisedByAdmin {
		o.shiftDueDate(-req.extensionDays, now)
	}

	if message == "" {
		message = "Request rejected"
	}

	o.status = newStatus
	o.pending = nil
	o.record(newEvent(o.id, EventRequestRejected, actorID(actor), message, now).withRequest(req))
	return req, nil
}

// resolvable returns the pending request if actor is the counterparty of the
// side that raised it: the owner for admin requests, an admin for owner
// requests. Nothing is mutated on failure.
func (o *Order) resolvable(actor Actor, action string) (PendingRequest, error) {
	if o.status != InDispute || o.pending == nil {
		return PendingRequest{}, errs.NewStateIsInvalidErrorWithCause("request", errors.New("order has no pending request"))
	}
	if actor == nil {
		return PendingRequest{}, errs.NewNotAuthorizedError(action)
	}

	req := *o.pending
	if req.raisedByAdmin {
		if !o.IsOwnedBy(actor) || actor.IsAdmin() {
			return PendingRequest{}, errs.NewNotAuthorizedErrorWithCause(action, errors.New("request must be resolved by the order owner"))
		}
		return req, nil
	}

	if !actor.IsAdmin() || o.IsOwnedBy(actor) {
		return PendingRequest{}, errs.NewNotAuthorizedErrorWithCause(action, errors.New("request must be resolved by an admin"))
	}
	return req, nil
}

// shiftDueDate moves the due date by days; an order without a due date gets
// one relative to now.
func (o *Order) shiftDueDate(days int, now time.Time) {
	base := now
	if o.dueDate != nil {
		base = *o.dueDate
	}
	due := base.Add(time.Duration(days) * day)
	o.dueDate = &due
}
