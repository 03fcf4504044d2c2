package http

import (
	"net/http"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// SubmitRequest handles POST /api/v1/orders/:id/requests.
func (s *Server) SubmitRequest(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req ResolutionRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	pending, err := pendingRequest(req)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSubmitRequestCommand(currentUser(c), orderID, pending)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.SubmitRequest.Handle(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.NoContent(http.StatusNoContent)
}

// ApproveRequest handles POST /api/v1/orders/:id/requests/approve.
func (s *Server) ApproveRequest(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewApproveRequestCommand(currentUser(c), orderID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.ResolveRequest.Approve(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.NoContent(http.StatusNoContent)
}

// RejectRequest handles POST /api/v1/orders/:id/requests/reject.
func (s *Server) RejectRequest(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req RejectRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRejectRequestCommand(currentUser(c), orderID, req.Message)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.ResolveRequest.Reject(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.NoContent(http.StatusNoContent)
}

func pendingRequest(req ResolutionRequest) (order.PendingRequest, error) {
	kind, err := order.ParseRequestKind(req.Type)
	if err != nil {
		return order.PendingRequest{}, err
	}

	switch kind { //nolint:exhaustive // ParseRequestKind never yields UnknownRequest
	case order.CancellationRequest:
		return order.NewCancellationRequest(req.Reason, req.Message)
	case order.ExtensionRequest:
		return order.NewExtensionRequest(req.Days, req.Reason)
	case order.RevisionRequest:
		return order.NewRevisionRequest(req.Message)
	default:
		return order.NewDisputeRequest(req.Message)
	}
}
