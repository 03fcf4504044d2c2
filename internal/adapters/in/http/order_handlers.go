package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/application/usecases/queries"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ListOrders handles GET /api/v1/orders?status=Delivered.
func (s *Server) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var status *order.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = &parsed
	}

	query, err := queries.NewListOrdersQuery(currentUser(c), status)
	if err != nil {
		return err
	}

	s.sweep(ctx)
	summaries, err := s.h.ListOrders.Handle(ctx, query)
	if err != nil {
		return err
	}

	resp := make([]OrderSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp = append(resp, toOrderSummaryResponse(summary))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	packageID, err := kernel.UUIDFromString(req.PackageID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("package_id", err)
	}

	names := make([]string, 0, len(req.Tags))
	moods := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		names = append(names, t.Name)
		moods = append(moods, t.Mood)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, currentUser(c), packageID, req.Details, names, moods,
		commands.CardDetails{
			Number: req.Card.Number,
			Holder: req.Card.Holder,
			Expiry: req.Card.Expiry,
			CVV:    req.Card.CVV,
		})
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.CreateOrder.Handle(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	query, err := s.orderQuery(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	s.sweep(ctx)
	resp, err := s.h.GetOrder.Handle(ctx, query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(resp))
}

// GetOrderTimeline handles GET /api/v1/orders/:id/timeline.
func (s *Server) GetOrderTimeline(c echo.Context) error {
	query, err := s.orderQuery(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	s.sweep(ctx)
	resp, err := s.h.OrderTimeline.Handle(ctx, query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTimelineResponse(resp.Entries))
}

// DeliverOrder handles the multipart POST /api/v1/orders/:id/deliver with a
// "response" field and any number of "files".
func (s *Server) DeliverOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, s.maxUpload)
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return errs.NewValueIsInvalidErrorWithCause("files", err)
	}

	var headers []*multipart.FileHeader
	response := c.FormValue("response")
	if form != nil {
		headers = form.File["files"]
	}

	uploads := make([]commands.Upload, 0, len(headers))
	for _, fh := range headers {
		f, openErr := fh.Open()
		if openErr != nil {
			return errs.NewValueIsInvalidErrorWithCause("files", openErr)
		}
		defer f.Close()
		uploads = append(uploads, commands.Upload{Filename: fh.Filename, Content: f})
	}

	cmd, err := commands.NewDeliverOrderCommand(currentUser(c), orderID, response, uploads)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.DeliverOrder.Handle(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteOrderCommand(currentUser(c), orderID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.CompleteOrder.Handle(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.NoContent(http.StatusNoContent)
}

// SubmitReview handles POST /api/v1/orders/:id/review.
func (s *Server) SubmitReview(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSubmitReviewCommand(currentUser(c), orderID, req.Rating, req.Text)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.h.SubmitReview.Handle(ctx, cmd); err != nil {
		return err
	}
	s.orderChanged(ctx)
	return c.NoContent(http.StatusNoContent)
}

// DownloadFile handles GET /api/v1/orders/:id/files/:name. Only files that
// belong to a delivery of a visible order are served.
func (s *Server) DownloadFile(c echo.Context) error {
	query, err := s.orderQuery(c)
	if err != nil {
		return err
	}

	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	name := c.Param("name")
	for _, d := range resp.Order.Deliveries() {
		for _, f := range d.Files() {
			if f.Filename() != name {
				continue
			}
			if !s.storage.Exists(name) {
				return errs.NewObjectNotFoundError("file", name)
			}
			path, pathErr := s.storage.Path(name)
			if pathErr != nil {
				return pathErr
			}
			return c.Attachment(path, f.OriginalFilename())
		}
	}
	return errs.NewObjectNotFoundError("file", name)
}

func (s *Server) orderQuery(c echo.Context) (queries.GetOrderQuery, error) {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return queries.GetOrderQuery{}, err
	}
	return queries.NewGetOrderQuery(currentUser(c), orderID)
}
