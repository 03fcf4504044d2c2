package queries

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var (
	ErrInboxQueryIsNotConstructed = errors.New(
		"InboxQuery must be created via NewInboxQuery constructor",
	)
	ErrOrderMessagesQueryIsNotConstructed = errors.New(
		"OrderMessagesQuery must be created via NewOrderMessagesQuery constructor",
	)
)

// InboxQuery reads the notifications and unread counters of one user.
type InboxQuery struct {
	actor order.Actor
	limit int

	guard guard.ConstructorGuard
}

// NewInboxQuery falls back to ports.DefaultNotificationLimit for limit <= 0.
func NewInboxQuery(actor order.Actor, limit int) (InboxQuery, error) {
	if err := validateActor(actor); err != nil {
		return InboxQuery{}, err
	}
	if limit <= 0 {
		limit = ports.DefaultNotificationLimit
	}
	return InboxQuery{actor: actor, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q InboxQuery) Validate() error {
	return q.guard.Validate(ErrInboxQueryIsNotConstructed)
}

func (q InboxQuery) Actor() order.Actor { return q.actor }
func (q InboxQuery) Limit() int         { return q.limit }

// UnreadCounts feeds the navigation badges.
type UnreadCounts struct {
	Notifications int64
	Messages      int64
}

// OrderMessagesQuery reads the chat of one order.
type OrderMessagesQuery struct {
	actor   order.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewOrderMessagesQuery(actor order.Actor, orderID kernel.UUID) (OrderMessagesQuery, error) {
	if err := validateActor(actor); err != nil {
		return OrderMessagesQuery{}, err
	}
	if err := orderID.Validate(); err != nil {
		return OrderMessagesQuery{}, errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	return OrderMessagesQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q OrderMessagesQuery) Validate() error {
	return q.guard.Validate(ErrOrderMessagesQueryIsNotConstructed)
}

func (q OrderMessagesQuery) Actor() order.Actor   { return q.actor }
func (q OrderMessagesQuery) OrderID() kernel.UUID { return q.orderID }
