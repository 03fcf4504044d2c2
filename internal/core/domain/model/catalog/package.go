// Package catalog holds the purchasable tagging packages.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
)

var ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

// Package is a purchasable offer. Its price and delivery days are copied into
// an order at purchase time through the order's package reference.
type Package struct {
	id           kernel.UUID
	name         string
	price        kernel.Money
	deliveryDays int
	tagCount     int
	description  string
	createdAt    time.Time

	isConstructed bool
}

// NewPackage creates a catalog entry.
func NewPackage(
	id kernel.UUID,
	name string,
	price kernel.Money,
	deliveryDays, tagCount int,
	description string,
	now time.Time,
) (*Package, error) {
	p := &Package{id: id, createdAt: now, isConstructed: true}

	if err := errors.Join(
		id.Validate(),
		p.apply(name, price, deliveryDays, tagCount, description),
	); err != nil {
		return nil, err
	}
	return p, nil
}

// RestorePackage rebuilds a persisted package without validation.
func RestorePackage(
	id kernel.UUID,
	name string,
	price kernel.Money,
	deliveryDays, tagCount int,
	description string,
	createdAt time.Time,
) *Package {
	return &Package{
		id:            id,
		name:          name,
		price:         price,
		deliveryDays:  deliveryDays,
		tagCount:      tagCount,
		description:   description,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

// Update replaces all editable fields. Nothing changes if any field is invalid.
func (p *Package) Update(name string, price kernel.Money, deliveryDays, tagCount int, description string) error {
	next := *p
	if err := next.apply(name, price, deliveryDays, tagCount, description); err != nil {
		return err
	}
	*p = next
	return nil
}

// AcceptsTags reports whether an order with n tags fits the package.
func (p *Package) AcceptsTags(n int) error {
	if n > p.tagCount {
		return errs.NewValueIsOutOfRangeError("tags", n, 0, p.tagCount)
	}
	return nil
}

func (p *Package) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPackageIsNotConstructed
	}
	return nil
}

func (p *Package) ID() kernel.UUID      { return p.id }
func (p *Package) Name() string         { return p.name }
func (p *Package) Price() kernel.Money  { return p.price }
func (p *Package) DeliveryDays() int    { return p.deliveryDays }
func (p *Package) TagCount() int        { return p.tagCount }
func (p *Package) Description() string  { return p.description }
func (p *Package) CreatedAt() time.Time { return p.createdAt }

func (p *Package) apply(name string, price kernel.Money, deliveryDays, tagCount int, description string) error {
	var errList []error

	name = strings.TrimSpace(name)
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if deliveryDays <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("delivery days", fmt.Errorf("%d is not greater than 0", deliveryDays)))
	}
	if tagCount <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("tag count", fmt.Errorf("%d is not greater than 0", tagCount)))
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}

	p.name = name
	p.price = price
	p.deliveryDays = deliveryDays
	p.tagCount = tagCount
	p.description = strings.TrimSpace(description)
	return nil
}
