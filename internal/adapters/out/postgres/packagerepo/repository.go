package packagerepo

import (
	"context"
	"errors"

	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPackageRepository implements ports.PackageRepository using GORM.
type GormPackageRepository struct {
	db *gorm.DB
}

var _ ports.PackageRepository = (*GormPackageRepository)(nil)

func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

func (r *GormPackageRepository) Add(ctx context.Context, p *catalog.Package) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := fromDomain(p)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormPackageRepository) Update(ctx context.Context, p *catalog.Package) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("id = ?", dto.ID).
		Select("name", "price", "delivery_days", "tag_count", "description").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("package", p.ID().String())
	}
	return nil
}

// Delete removes the package. Orders keep their package reference.
func (r *GormPackageRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PackageDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("package", id.String())
	}
	return nil
}

func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PackageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormPackageRepository) GetAll(ctx context.Context) ([]*catalog.Package, error) {
	var dtos []PackageDTO
	if err := r.db.WithContext(ctx).Order("price, name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	packages := make([]*catalog.Package, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, nil
}

func (r *GormPackageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PackageDTO{}).Count(&count).Error
	return count, err
}
