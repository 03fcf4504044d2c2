package ports

import (
	"context"

	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
)

type PackageRepository interface {
	Add(ctx context.Context, p *catalog.Package) error
	Update(ctx context.Context, p *catalog.Package) error

	// Delete returns errs.ObjectNotFoundError for unknown ids.
	Delete(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*catalog.Package, error)

	// GetAll returns packages ordered by price.
	GetAll(ctx context.Context) ([]*catalog.Package, error)
	Count(ctx context.Context) (int64, error)
}
