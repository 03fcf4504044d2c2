package commands

import (
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
)

func validateActor(actor order.Actor) error {
	if actor == nil {
		return errs.NewValueIsRequiredError("actor")
	}
	if err := actor.ID().Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	return nil
}

func requireAdmin(actor order.Actor, action string) error {
	if !actor.IsAdmin() {
		return errs.NewNotAuthorizedError(action)
	}
	return nil
}
