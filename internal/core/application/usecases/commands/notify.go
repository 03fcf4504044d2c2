package commands

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
)

type recipientSource interface {
	UserRepoFactory
	NotificationRepoFactory
}

// composeFunc builds the notifications for one transition from its recipients.
type composeFunc func(o *order.Order, r services.Recipients, now time.Time) ([]*notification.Notification, error)

// notify resolves the owner and current admins of o and stores whatever
// compose produced inside the caller's transaction.
func notify(ctx context.Context, uow recipientSource, o *order.Order, now time.Time, compose composeFunc) error {
	admins, err := uow.UserRepository().GetAdmins(ctx)
	if err != nil {
		return err
	}

	r := services.Recipients{OwnerID: o.UserID(), AdminIDs: make([]kernel.UUID, 0, len(admins))}
	for _, a := range admins {
		r.AdminIDs = append(r.AdminIDs, a.ID())
	}

	notes, err := compose(o, r, now)
	if err != nil {
		return err
	}
	return uow.NotificationRepository().Add(ctx, notes...)
}
