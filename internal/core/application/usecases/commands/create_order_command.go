package commands

import (
	"errors"
	"strings"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CardDetails is the raw payment card input. It is validated when the order
// is placed and never stored.
type CardDetails struct {
	Number string
	Holder string
	Expiry string
	CVV    string
}

// CreateOrderCommand places an order for a catalog package.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), currentUser, packageID,
//	    "Emotes for my channel", []string{"GG"}, []string{"happy"}, card)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actor     order.Actor
	packageID kernel.UUID
	details   string
	tags      []order.Tag
	card      CardDetails

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand pairs tag names with moods by position; extra
// entries of the longer list are dropped.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor order.Actor,
	packageID kernel.UUID,
	details string,
	tagNames, tagMoods []string,
	card CardDetails,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		card:  card,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setPackageID(packageID),
		cmd.setDetails(details),
		cmd.setTags(tagNames, tagMoods),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c CreateOrderCommand) Actor() order.Actor     { return c.actor }
func (c CreateOrderCommand) PackageID() kernel.UUID { return c.packageID }
func (c CreateOrderCommand) Details() string        { return c.details }
func (c CreateOrderCommand) Tags() []order.Tag      { return append([]order.Tag(nil), c.tags...) }
func (c CreateOrderCommand) Card() CardDetails      { return c.card }

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setActor(actor order.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("package", err)
	}
	c.packageID = id
	return nil
}

func (c *CreateOrderCommand) setDetails(details string) error {
	details = strings.TrimSpace(details)
	if details == "" {
		return errs.NewValueIsRequiredError("details")
	}
	c.details = details
	return nil
}

func (c *CreateOrderCommand) setTags(names, moods []string) error {
	tags, err := order.ZipTags(names, moods)
	if err != nil {
		return err
	}
	c.tags = tags
	return nil
}
