package queries

import (
	"context"
	"errors"

	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"
)

// GetOrderQueryHandler reads through repositories that are not bound to a
// transaction.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	o, err := visibleOrder(ctx, uow.OrderRepository(), query)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	events, err := uow.OrderRepository().GetEvents(ctx, o.ID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{Order: o, Events: events}
	pkg, err := uow.PackageRepository().Get(ctx, o.PackageID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// deleted package
	case err != nil:
		return GetOrderQueryResponse{}, err
	default:
		view := packageView(pkg)
		resp.Package = &view
	}
	return resp, nil
}

type GetOrderTimelineQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	builder    services.TimelineBuilder
}

func NewGetOrderTimelineQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{uowFactory: uowFactory, builder: services.NewTimelineBuilder()}
}

func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	o, err := visibleOrder(ctx, repo, query)
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}
	events, err := repo.GetEvents(ctx, o.ID())
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	return GetOrderTimelineQueryResponse{
		OrderID: o.ID(),
		Entries: h.builder.Build(o.Deliveries(), events),
	}, nil
}

// visibleOrder hides orders of other customers behind NotAuthorized.
func visibleOrder(ctx context.Context, repo ports.OrderRepository, query GetOrderQuery) (*order.Order, error) {
	o, err := repo.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if !query.Actor().IsAdmin() && !o.IsOwnedBy(query.Actor()) {
		return nil, errs.NewNotAuthorizedError("view order")
	}
	return o, nil
}
