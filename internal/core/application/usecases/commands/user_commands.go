package commands

import (
	"errors"
	"strings"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var (
	ErrRegisterUserCommandIsNotConstructed = errors.New(
		"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
	)
	ErrAuthenticateCommandIsNotConstructed = errors.New(
		"AuthenticateCommand must be created via NewAuthenticateCommand constructor",
	)
	ErrSeedCommandIsNotConstructed = errors.New(
		"SeedCommand must be created via NewSeedCommand constructor",
	)
)

// RegisterUserCommand creates a customer account. Field rules live on the
// user model; the handler enforces uniqueness.
type RegisterUserCommand struct {
	userID   kernel.UUID
	username string
	email    string
	password string

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(userID kernel.UUID, username, email, password string) (RegisterUserCommand, error) {
	if err := userID.Validate(); err != nil {
		return RegisterUserCommand{}, err
	}
	return RegisterUserCommand{
		userID:   userID,
		username: strings.TrimSpace(username),
		email:    strings.TrimSpace(email),
		password: password,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) UserID() kernel.UUID { return c.userID }
func (c RegisterUserCommand) Username() string    { return c.username }
func (c RegisterUserCommand) Email() string       { return c.email }
func (c RegisterUserCommand) Password() string    { return c.password }

type AuthenticateCommand struct {
	username string
	password string

	guard guard.ConstructorGuard
}

func NewAuthenticateCommand(username, password string) (AuthenticateCommand, error) {
	var errList []error
	username = strings.TrimSpace(username)
	if username == "" {
		errList = append(errList, errs.NewValueIsRequiredError("username"))
	}
	if password == "" {
		errList = append(errList, errs.NewValueIsRequiredError("password"))
	}
	if len(errList) > 0 {
		return AuthenticateCommand{}, errors.Join(errList...)
	}
	return AuthenticateCommand{username: username, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (c AuthenticateCommand) Validate() error {
	return c.guard.Validate(ErrAuthenticateCommandIsNotConstructed)
}

func (c AuthenticateCommand) Username() string { return c.username }
func (c AuthenticateCommand) Password() string { return c.password }

// SeedCommand provisions the default admin and, on an empty catalog, the
// default packages.
type SeedCommand struct {
	adminUsername string
	adminEmail    string
	adminPassword string

	guard guard.ConstructorGuard
}

func NewSeedCommand(adminUsername, adminEmail, adminPassword string) SeedCommand {
	return SeedCommand{
		adminUsername: strings.TrimSpace(adminUsername),
		adminEmail:    strings.TrimSpace(adminEmail),
		adminPassword: adminPassword,
		guard:         guard.NewConstructorGuard(),
	}
}

func (c SeedCommand) Validate() error {
	return c.guard.Validate(ErrSeedCommandIsNotConstructed)
}

func (c SeedCommand) AdminUsername() string { return c.adminUsername }
func (c SeedCommand) AdminEmail() string    { return c.adminEmail }
func (c SeedCommand) AdminPassword() string { return c.adminPassword }

// SeedResult reports what a seed run created.
type SeedResult struct {
	AdminCreated    bool
	PackagesCreated int
}
