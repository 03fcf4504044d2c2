package commands

import (
	"context"

	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
)

// PackageCommandHandler maintains the catalog. Every operation is admin only.
type PackageCommandHandler struct {
	uowFactory CatalogUoWFactory
	clock      kernel.Clock
}

func NewPackageCommandHandler(uowFactory CatalogUoWFactory, clock kernel.Clock) PackageCommandHandler {
	return PackageCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h PackageCommandHandler) Create(ctx context.Context, cmd PackageCommand) error {
	return h.run(ctx, cmd, "create package", func(uow CatalogUoW) error {
		f := cmd.Fields()
		p, err := catalog.NewPackage(cmd.PackageID(), f.Name, f.Price, f.DeliveryDays, f.TagCount, f.Description, h.clock.Now())
		if err != nil {
			return err
		}
		return uow.PackageRepository().Add(ctx, p)
	})
}

func (h PackageCommandHandler) Update(ctx context.Context, cmd PackageCommand) error {
	return h.run(ctx, cmd, "update package", func(uow CatalogUoW) error {
		repo := uow.PackageRepository()
		p, err := repo.Get(ctx, cmd.PackageID())
		if err != nil {
			return err
		}

		f := cmd.Fields()
		if err = p.Update(f.Name, f.Price, f.DeliveryDays, f.TagCount, f.Description); err != nil {
			return err
		}
		return repo.Update(ctx, p)
	})
}

// Delete removes the package; existing orders keep referencing it.
func (h PackageCommandHandler) Delete(ctx context.Context, cmd PackageCommand) error {
	return h.run(ctx, cmd, "delete package", func(uow CatalogUoW) error {
		return uow.PackageRepository().Delete(ctx, cmd.PackageID())
	})
}

func (h PackageCommandHandler) run(ctx context.Context, cmd PackageCommand, action string, apply func(CatalogUoW) error) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireAdmin(cmd.Actor(), action); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := apply(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
