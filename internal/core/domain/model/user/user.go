// Package user models marketplace accounts. A User acts on orders as either
// the owner or an admin.
package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

type User struct {
	id           kernel.UUID
	username     string
	email        string
	passwordHash string
	isAdmin      bool
	createdAt    time.Time

	isConstructed bool
}

// NewUser hashes the password with bcrypt at the default cost.
func NewUser(id kernel.UUID, username, email, password string, isAdmin bool, now time.Time) (*User, error) {
	u := &User{id: id, isAdmin: isAdmin, createdAt: now, isConstructed: true}

	if err := errors.Join(
		id.Validate(),
		u.setUsername(username),
		u.setEmail(email),
		u.SetPassword(password),
	); err != nil {
		return nil, err
	}
	return u, nil
}

// RestoreUser rebuilds a persisted user with an already hashed password.
func RestoreUser(id kernel.UUID, username, email, passwordHash string, isAdmin bool, createdAt time.Time) *User {
	return &User{
		id:            id,
		username:      username,
		email:         email,
		passwordHash:  passwordHash,
		isAdmin:       isAdmin,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID      { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsAdmin() bool        { return u.isAdmin }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// CheckPassword compares plain against the stored bcrypt hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(plain)) == nil
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return errs.NewValueIsInvalidErrorWithCause("password", fmt.Errorf("must be at least %d characters", MinPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.passwordHash = string(hash)
	return nil
}

// Promote grants admin rights.
func (u *User) Promote() { u.isAdmin = true }

func (u *User) setUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}
	u.username = username
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	u.email = email
	return nil
}
