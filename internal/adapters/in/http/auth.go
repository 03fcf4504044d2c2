package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const currentUserKey = "current_user"

var errMissingToken = errors.New("missing bearer token")

// UserLookup loads the user a token was issued for.
type UserLookup func(ctx context.Context, id kernel.UUID) (*user.User, error)

// TokenIssuer signs and verifies HS256 access tokens whose subject is the
// user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  kernel.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clock kernel.Clock) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

func (t *TokenIssuer) Issue(u *user.User) (string, time.Time, error) {
	now := t.clock.Now()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   u.ID().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse returns the user id carried by a valid, unexpired token.
func (t *TokenIssuer) Parse(token string) (kernel.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(claims.Subject)
}

// RequireUser rejects requests without a valid bearer token and stores the
// token's user in the echo context.
func RequireUser(tokens *TokenIssuer, lookup UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, errMissingToken.Error())
			}

			userID, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			u, err := lookup(c.Request().Context(), userID)
			if errors.Is(err, errs.ErrObjectNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if err != nil {
				return err
			}

			c.Set(currentUserKey, u)
			return next(c)
		}
	}
}

// currentUser is only valid behind RequireUser.
func currentUser(c echo.Context) *user.User {
	u, _ := c.Get(currentUserKey).(*user.User)
	return u
}
