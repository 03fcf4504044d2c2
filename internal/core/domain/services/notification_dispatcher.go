package services

import (
	"fmt"
	"slices"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
)

// Recipients identifies who is notified about an order: its owner and the
// current admins.
type Recipients struct {
	OwnerID  kernel.UUID
	AdminIDs []kernel.UUID
}

// NotificationDispatcher composes the inbox notifications for order
// transitions and fans them out to the owner or to every admin.
//
// Business rules:
//   - customer actions notify all admins
//   - admin actions notify the owner
//   - request resolutions notify the side that raised the request
//   - auto-completion notifies the owner and every admin once
//
// Example usage:
//
//	d := services.NewNotificationDispatcher()
//	notes, err := d.Delivered(o, services.Recipients{OwnerID: o.UserID()}, now)
type NotificationDispatcher struct{}

func NewNotificationDispatcher() NotificationDispatcher {
	return NotificationDispatcher{}
}

func (d NotificationDispatcher) OrderPlaced(o *order.Order, r Recipients, now time.Time) ([]*notification.Notification, error) {
	return d.toAdmins(o, r, notification.OrderPlaced, "New Order Placed",
		fmt.Sprintf("Order #%s was placed", o.ID().Short()), now)
}

func (d NotificationDispatcher) Delivered(o *order.Order, r Recipients, now time.Time) ([]*notification.Notification, error) {
	return d.toOwner(o, r, notification.Delivered, "Order Delivered",
		fmt.Sprintf("Your order #%s has been delivered!", o.ID().Short()), now)
}

func (d NotificationDispatcher) Completed(o *order.Order, r Recipients, now time.Time) ([]*notification.Notification, error) {
	return d.toAdmins(o, r, notification.OrderCompleted, "Order Completed",
		fmt.Sprintf("Order #%s was marked as complete", o.ID().Short()), now)
}

func (d NotificationDispatcher) ReviewLeft(o *order.Order, r Recipients, rating int, now time.Time) ([]*notification.Notification, error) {
	return d.toAdmins(o, r, notification.ReviewLeft, fmt.Sprintf("%d-Star Review", rating),
		fmt.Sprintf("Review left on order #%s", o.ID().Short()), now)
}

// AutoCompleted notifies the owner and every admin.
func (d NotificationDispatcher) AutoCompleted(o *order.Order, r Recipients, now time.Time) ([]*notification.Notification, error) {
	msg := fmt.Sprintf("Order #%s was automatically completed %d hours after delivery",
		o.ID().Short(), int(order.AutoCompleteGrace.Hours()))

	owner, err := d.toOwner(o, r, notification.AutoCompleted, "Order Auto-Completed", msg, now)
	if err != nil {
		return nil, err
	}
	// An owner who is also an admin is notified once.
	r.AdminIDs = slices.DeleteFunc(slices.Clone(r.AdminIDs), func(id kernel.UUID) bool { return id == r.OwnerID })
	admins, err := d.toAdmins(o, r, notification.AutoCompleted, "Order Auto-Completed", msg, now)
	if err != nil {
		return nil, err
	}
	return append(owner, admins...), nil
}

// RequestSubmitted notifies the counterparty of a freshly raised request.
func (d NotificationDispatcher) RequestSubmitted(
	o *order.Order,
	r Recipients,
	req order.PendingRequest,
	now time.Time,
) ([]*notification.Notification, error) {
	side := "User"
	if req.RaisedByAdmin() {
		side = "Admin"
	}

	var (
		kind  notification.Type
		title string
		msg   string
		short = o.ID().Short()
	)
	switch req.Kind() { //nolint:exhaustive // unknown kinds cannot be pending
	case order.CancellationRequest:
		kind, title = notification.CancellationRequested, "Cancellation Requested"
		msg = fmt.Sprintf("%s requested cancellation for order #%s", side, short)
	case order.ExtensionRequest:
		kind, title = notification.ExtensionRequested, "Extension Requested"
		msg = fmt.Sprintf("%s requested %d-day extension for order #%s", side, req.ExtensionDays(), short)
	case order.RevisionRequest:
		kind, title = notification.RevisionRequested, "Revision Requested"
		msg = fmt.Sprintf("%s requested a revision on order #%s", side, short)
	default:
		kind, title = notification.DisputeOpened, "Dispute Opened"
		msg = fmt.Sprintf("%s opened a dispute for order #%s", side, short)
	}

	if req.RaisedByAdmin() {
		return d.toOwner(o, r, kind, title, msg, now)
	}
	return d.toAdmins(o, r, kind, title, msg, now)
}

// RequestApproved notifies the side that raised the approved request.
func (d NotificationDispatcher) RequestApproved(
	o *order.Order,
	r Recipients,
	req order.PendingRequest,
	now time.Time,
) ([]*notification.Notification, error) {
	msg := fmt.Sprintf("Your request for order #%s has been approved", o.ID().Short())
	return d.toRequester(o, r, req, notification.RequestApproved, "Request Approved", msg, now)
}

// RequestRejected notifies the side that raised the rejected request, quoting
// the rejection message when one was given.
func (d NotificationDispatcher) RequestRejected(
	o *order.Order,
	r Recipients,
	req order.PendingRequest,
	rejection string,
	now time.Time,
) ([]*notification.Notification, error) {
	msg := fmt.Sprintf("Your request for order #%s has been rejected", o.ID().Short())
	if rejection != "" {
		msg += ": " + rejection
	}
	return d.toRequester(o, r, req, notification.RequestRejected, "Request Rejected", msg, now)
}

// NewMessage notifies the other party of an order chat.
func (d NotificationDispatcher) NewMessage(
	o *order.Order,
	r Recipients,
	fromAdmin bool,
	now time.Time,
) ([]*notification.Notification, error) {
	msg := fmt.Sprintf("New message on order #%s", o.ID().Short())
	if fromAdmin {
		return d.toOwner(o, r, notification.NewMessage, "New Message", msg, now)
	}
	return d.toAdmins(o, r, notification.NewMessage, "New Message", msg, now)
}

func (d NotificationDispatcher) toRequester(
	o *order.Order,
	r Recipients,
	req order.PendingRequest,
	kind notification.Type,
	title, msg string,
	now time.Time,
) ([]*notification.Notification, error) {
	if req.RaisedByAdmin() {
		return d.toAdmins(o, r, kind, title, msg, now)
	}
	return d.toOwner(o, r, kind, title, msg, now)
}

func (d NotificationDispatcher) toOwner(
	o *order.Order,
	r Recipients,
	kind notification.Type,
	title, msg string,
	now time.Time,
) ([]*notification.Notification, error) {
	orderID := o.ID()
	n, err := notification.NewNotification(r.OwnerID, &orderID, kind, title, msg, now)
	if err != nil {
		return nil, err
	}
	return []*notification.Notification{n}, nil
}

func (d NotificationDispatcher) toAdmins(
	o *order.Order,
	r Recipients,
	kind notification.Type,
	title, msg string,
	now time.Time,
) ([]*notification.Notification, error) {
	orderID := o.ID()
	notes := make([]*notification.Notification, 0, len(r.AdminIDs))
	for _, adminID := range r.AdminIDs {
		n, err := notification.NewNotification(adminID, &orderID, kind, title, msg, now)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}
