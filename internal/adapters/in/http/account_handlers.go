package http

import (
	"errors"
	"net/http"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// RegisterUser handles POST /api/v1/auth/register.
func (s *Server) RegisterUser(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := kernel.NewUUID()
	cmd, err := commands.NewRegisterUserCommand(userID, req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	if err = s.h.RegisterUser.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: userID.String()})
}

// Login handles POST /api/v1/auth/login and returns a bearer token.
func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewAuthenticateCommand(req.Username, req.Password)
	if err != nil {
		return err
	}
	u, err := s.h.Authenticate.Handle(c.Request().Context(), cmd)
	if errors.Is(err, errs.ErrNotAuthorized) {
		return echo.NewHTTPError(http.StatusUnauthorized, commands.ErrInvalidCredentials.Error())
	}
	if err != nil {
		return err
	}

	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: toUserResponse(u)})
}

// Me handles GET /api/v1/me.
func (s *Server) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}
