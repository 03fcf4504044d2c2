package queries

import (
	"context"
	"errors"
	"time"

	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/guard"
)

var ErrListPackagesQueryIsNotConstructed = errors.New(
	"ListPackagesQuery must be created via NewListPackagesQuery constructor",
)

// ListPackagesQuery is public; the catalog needs no actor.
type ListPackagesQuery struct {
	guard guard.ConstructorGuard
}

func NewListPackagesQuery() ListPackagesQuery {
	return ListPackagesQuery{guard: guard.NewConstructorGuard()}
}

func (q ListPackagesQuery) Validate() error {
	return q.guard.Validate(ErrListPackagesQueryIsNotConstructed)
}

type PackageView struct {
	ID           kernel.UUID
	Name         string
	Price        kernel.Money
	DeliveryDays int
	TagCount     int
	Description  string
	CreatedAt    time.Time
}

func packageView(p *catalog.Package) PackageView {
	return PackageView{
		ID:           p.ID(),
		Name:         p.Name(),
		Price:        p.Price(),
		DeliveryDays: p.DeliveryDays(),
		TagCount:     p.TagCount(),
		Description:  p.Description(),
		CreatedAt:    p.CreatedAt(),
	}
}

// ListPackagesQueryHandler returns the catalog cheapest first.
type ListPackagesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListPackagesQueryHandler(uowFactory ports.UnitOfWorkFactory) ListPackagesQueryHandler {
	return ListPackagesQueryHandler{uowFactory: uowFactory}
}

func (h ListPackagesQueryHandler) Handle(ctx context.Context, query ListPackagesQuery) ([]PackageView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	packages, err := h.uowFactory.Create().PackageRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PackageView, 0, len(packages))
	for _, p := range packages {
		views = append(views, packageView(p))
	}
	return views, nil
}
