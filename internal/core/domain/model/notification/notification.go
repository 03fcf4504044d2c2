// Package notification models the in-app inbox entries produced by order
// transitions.
package notification

import (
	"errors"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
)

// Type tags what produced a notification.
type Type string

const (
	OrderPlaced           Type = "order_placed"
	Delivered             Type = "delivered"
	OrderCompleted        Type = "order_completed"
	AutoCompleted         Type = "auto_completed"
	ReviewLeft            Type = "review_left"
	RevisionRequested     Type = "revision_requested"
	CancellationRequested Type = "cancellation_requested"
	ExtensionRequested    Type = "extension_requested"
	DisputeOpened         Type = "dispute_opened"
	RequestApproved       Type = "request_approved"
	RequestRejected       Type = "request_rejected"
	NewMessage            Type = "new_message"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	orderID     *kernel.UUID
	kind        Type
	title       string
	message     string
	isRead      bool
	createdAt   time.Time

	isConstructed bool
}

// NewNotification creates an unread notification. orderID may be nil.
func NewNotification(recipientID kernel.UUID, orderID *kernel.UUID, kind Type, title, message string, now time.Time) (*Notification, error) {
	if err := recipientID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("recipient", err)
	}
	if strings.TrimSpace(title) == "" {
		return nil, errs.NewValueIsRequiredError("title")
	}
	if kind == "" {
		return nil, errs.NewValueIsRequiredError("notification type")
	}

	return &Notification{
		id:            kernel.NewUUID(),
		recipientID:   recipientID,
		orderID:       orderID,
		kind:          kind,
		title:         title,
		message:       message,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

func RestoreNotification(
	id, recipientID kernel.UUID,
	orderID *kernel.UUID,
	kind Type,
	title, message string,
	isRead bool,
	createdAt time.Time,
) *Notification {
	return &Notification{
		id:            id,
		recipientID:   recipientID,
		orderID:       orderID,
		kind:          kind,
		title:         title,
		message:       message,
		isRead:        isRead,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

// MarkAsRead is allowed only for the recipient.
func (n *Notification) MarkAsRead(readerID kernel.UUID) error {
	if !n.recipientID.IsEqual(readerID) {
		return errs.NewNotAuthorizedError("mark notification as read")
	}
	n.isRead = true
	return nil
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) RecipientID() kernel.UUID { return n.recipientID }
func (n *Notification) OrderID() *kernel.UUID    { return n.orderID }
func (n *Notification) Type() Type               { return n.kind }
func (n *Notification) Title() string            { return n.title }
func (n *Notification) Message() string          { return n.message }
func (n *Notification) IsRead() bool             { return n.isRead }
func (n *Notification) CreatedAt() time.Time     { return n.createdAt }
