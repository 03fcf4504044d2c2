// Package commands contains business operations that modify system state.
// Every handler validates its command, opens a unit of work, applies the
// change through the aggregates and commits. Notifications and order events
// are written in the same transaction as the state they describe.
package commands

import (
	"context"

	"tagging/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest one that covers its repositories.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	MessageRepoFactory interface {
		MessageRepository() ports.MessageRepository
	}

	// OrderUoW covers order transitions: the order itself, the admins to
	// notify and the notifications.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		NotificationRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// InboxUoW covers chat and notification bookkeeping.
	InboxUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		NotificationRepoFactory
		MessageRepoFactory
	}

	InboxUoWFactory interface {
		Create() InboxUoW
	}

	CatalogUoW interface {
		TxManager
		PackageRepoFactory
	}

	CatalogUoWFactory interface {
		Create() CatalogUoW
	}

	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	UserUoWFactory interface {
		Create() UserUoW
	}

	// UoW spans every repository. Used by order placement, which reads the
	// catalog, and by seeding.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   pkg, err := uow.PackageRepository().Get(ctx, packageID)
	//   // ... build the order
	//   err = uow.OrderRepository().Add(ctx, o)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		PackageRepoFactory
		UserRepoFactory
		NotificationRepoFactory
		MessageRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
