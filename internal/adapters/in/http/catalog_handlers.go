package http

import (
	"net/http"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/application/usecases/queries"
	"tagging/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// ListPackages handles GET /api/v1/packages.
func (s *Server) ListPackages(c echo.Context) error {
	packages, err := s.h.ListPackages.Handle(c.Request().Context(), queries.NewListPackagesQuery())
	if err != nil {
		return err
	}

	resp := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		resp = append(resp, toPackageResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreatePackage handles POST /api/v1/packages.
func (s *Server) CreatePackage(c echo.Context) error {
	fields, err := packageFields(c)
	if err != nil {
		return err
	}

	packageID := kernel.NewUUID()
	cmd, err := commands.NewCreatePackageCommand(currentUser(c), packageID, fields)
	if err != nil {
		return err
	}
	if err = s.h.Packages.Create(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: packageID.String()})
}

// UpdatePackage handles PUT /api/v1/packages/:id.
func (s *Server) UpdatePackage(c echo.Context) error {
	packageID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	fields, err := packageFields(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdatePackageCommand(currentUser(c), packageID, fields)
	if err != nil {
		return err
	}
	if err = s.h.Packages.Update(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeletePackage handles DELETE /api/v1/packages/:id.
func (s *Server) DeletePackage(c echo.Context) error {
	packageID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeletePackageCommand(currentUser(c), packageID)
	if err != nil {
		return err
	}
	if err = s.h.Packages.Delete(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func packageFields(c echo.Context) (commands.PackageFields, error) {
	var req PackageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return commands.PackageFields{}, err
	}
	price, err := kernel.MoneyFromString(req.Price)
	if err != nil {
		return commands.PackageFields{}, err
	}
	return commands.PackageFields{
		Name:         req.Name,
		Price:        price,
		DeliveryDays: req.DeliveryDays,
		TagCount:     req.TagCount,
		Description:  req.Description,
	}, nil
}
