package queries

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads one order for its owner or an admin. The same query
// drives GetOrderTimelineQueryHandler.
type GetOrderQuery struct {
	actor   order.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor order.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetOrderQuery{}, err
	}
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() order.Actor   { return q.actor }
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the order detail page: the aggregate with its tags
// and deliveries, its events oldest first, and the package it was placed for.
// Package is nil when the package was deleted.
type GetOrderQueryResponse struct {
	Order   *order.Order
	Events  []*order.Event
	Package *PackageView
}

// GetOrderTimelineQueryResponse is the merged delivery and event history.
type GetOrderTimelineQueryResponse struct {
	OrderID kernel.UUID
	Entries []services.TimelineEntry
}
