package commands

import (
	"context"
	"errors"
	"time"

	"tagging/internal/core/domain/model/catalog"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/pkg/errs"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	clock      kernel.Clock
}

func NewRegisterUserCommandHandler(uowFactory UserUoWFactory, clock kernel.Clock) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle creates a non-admin account with a unique username and email.
func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	u, err := user.NewUser(cmd.UserID(), cmd.Username(), cmd.Email(), cmd.Password(), false, h.clock.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = ensureUnique(ctx, uow, u.Username(), u.Email()); err != nil {
		return err
	}
	if err = uow.UserRepository().Add(ctx, u); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type AuthenticateCommandHandler struct {
	uowFactory UserUoWFactory
}

func NewAuthenticateCommandHandler(uowFactory UserUoWFactory) AuthenticateCommandHandler {
	return AuthenticateCommandHandler{uowFactory: uowFactory}
}

// Handle returns the user whose username and password match. Unknown users
// and wrong passwords fail with the same errs.NotAuthorizedError.
func (h AuthenticateCommandHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.uowFactory.Create().UserRepository().GetByUsername(ctx, cmd.Username())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewNotAuthorizedErrorWithCause("authenticate", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !u.CheckPassword(cmd.Password()) {
		return nil, errs.NewNotAuthorizedErrorWithCause("authenticate", ErrInvalidCredentials)
	}
	return u, nil
}

type seedPackage struct {
	name         string
	price        string
	deliveryDays int
	tagCount     int
	description  string
}

var defaultPackages = []seedPackage{
	{"Basic", "10.00", 1, 2, "Simple tag, 1 revision"},
	{"Standard", "20.00", 2, 4, "More features, 2 revisions"},
	{"Premium", "40.00", 3, 6, "Full customization, unlimited revisions"},
}

type SeedCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
}

func NewSeedCommandHandler(uowFactory UoWFactory, clock kernel.Clock) SeedCommandHandler {
	return SeedCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle is safe to run on every start: an existing admin username and a
// non-empty catalog are left untouched.
func (h SeedCommandHandler) Handle(ctx context.Context, cmd SeedCommand) (SeedResult, error) {
	if err := cmd.Validate(); err != nil {
		return SeedResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SeedResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	var result SeedResult

	if cmd.AdminUsername() != "" {
		created, err := h.seedAdmin(ctx, uow, cmd, now)
		if err != nil {
			return SeedResult{}, err
		}
		result.AdminCreated = created
	}

	count, err := uow.PackageRepository().Count(ctx)
	if err != nil {
		return SeedResult{}, err
	}
	if count == 0 {
		for _, sp := range defaultPackages {
			p, pkgErr := catalog.NewPackage(kernel.NewUUID(), sp.name, kernel.MustMoney(sp.price),
				sp.deliveryDays, sp.tagCount, sp.description, now)
			if pkgErr != nil {
				return SeedResult{}, pkgErr
			}
			if pkgErr = uow.PackageRepository().Add(ctx, p); pkgErr != nil {
				return SeedResult{}, pkgErr
			}
			result.PackagesCreated++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SeedResult{}, err
	}
	return result, nil
}

func (h SeedCommandHandler) seedAdmin(ctx context.Context, uow UoW, cmd SeedCommand, now time.Time) (bool, error) {
	_, err := uow.UserRepository().GetByUsername(ctx, cmd.AdminUsername())
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return false, err
	}

	admin, err := user.NewUser(kernel.NewUUID(), cmd.AdminUsername(), cmd.AdminEmail(), cmd.AdminPassword(), true, now)
	if err != nil {
		return false, err
	}
	if err = uow.UserRepository().Add(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

func ensureUnique(ctx context.Context, uow UserRepoFactory, username, email string) error {
	repo := uow.UserRepository()

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return errs.NewValueIsInvalidErrorWithCause("username", ErrUsernameTaken)
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return errs.NewValueIsInvalidErrorWithCause("email", ErrEmailTaken)
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	return nil
}
