package commands

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrPackageCommandIsNotConstructed = errors.New(
	"PackageCommand must be created via NewCreatePackageCommand, NewUpdatePackageCommand or NewDeletePackageCommand",
)

// PackageFields are the editable attributes of a catalog package. They are
// validated by the catalog model.
type PackageFields struct {
	Name         string
	Price        kernel.Money
	DeliveryDays int
	TagCount     int
	Description  string
}

// PackageCommand targets one catalog package on behalf of an admin.
type PackageCommand struct {
	actor     order.Actor
	packageID kernel.UUID
	fields    PackageFields

	guard guard.ConstructorGuard
}

// NewCreatePackageCommand uses packageID as the id of the new package.
func NewCreatePackageCommand(actor order.Actor, packageID kernel.UUID, fields PackageFields) (PackageCommand, error) {
	return newPackageCommand(actor, packageID, fields)
}

func NewUpdatePackageCommand(actor order.Actor, packageID kernel.UUID, fields PackageFields) (PackageCommand, error) {
	return newPackageCommand(actor, packageID, fields)
}

func NewDeletePackageCommand(actor order.Actor, packageID kernel.UUID) (PackageCommand, error) {
	return newPackageCommand(actor, packageID, PackageFields{})
}

func newPackageCommand(actor order.Actor, packageID kernel.UUID, fields PackageFields) (PackageCommand, error) {
	var idErr error
	if err := packageID.Validate(); err != nil {
		idErr = errs.NewValueIsRequiredErrorWithCause("package", err)
	}
	if err := errors.Join(validateActor(actor), idErr); err != nil {
		return PackageCommand{}, err
	}
	return PackageCommand{
		actor:     actor,
		packageID: packageID,
		fields:    fields,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PackageCommand) Validate() error {
	return c.guard.Validate(ErrPackageCommandIsNotConstructed)
}

func (c PackageCommand) Actor() order.Actor     { return c.actor }
func (c PackageCommand) PackageID() kernel.UUID { return c.packageID }
func (c PackageCommand) Fields() PackageFields  { return c.fields }
