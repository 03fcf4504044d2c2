package ports

import (
	"context"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/user"
)

type UserRepository interface {
	Add(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetAdmins(ctx context.Context) ([]*user.User, error)
}
