// Package packagerepo persists catalog packages.
package packagerepo

import (
	"time"

	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PackageDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"size:255;not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);index;not null"`
	DeliveryDays int             `gorm:"not null"`
	TagCount     int             `gorm:"not null"`
	Description  string          `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"not null"`
}

func (PackageDTO) TableName() string {
	return "packages"
}

func fromDomain(p *catalog.Package) PackageDTO {
	return PackageDTO{
		ID:           p.ID().Bytes(),
		Name:         p.Name(),
		Price:        p.Price().Decimal(),
		DeliveryDays: p.DeliveryDays(),
		TagCount:     p.TagCount(),
		Description:  p.Description(),
		CreatedAt:    p.CreatedAt().UTC(),
	}
}

func toDomain(dto PackageDTO) (*catalog.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	return catalog.RestorePackage(id, dto.Name, price, dto.DeliveryDays, dto.TagCount, dto.Description, dto.CreatedAt), nil
}
