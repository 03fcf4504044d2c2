package http

import (
	"net/http"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListOrderMessages handles GET /api/v1/orders/:id/messages. Reading the
// chat marks the counterparty's messages as read.
func (s *Server) ListOrderMessages(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	actor := currentUser(c)

	query, err := queries.NewOrderMessagesQuery(actor, orderID)
	if err != nil {
		return err
	}
	messages, err := s.h.InboxQueries.ListOrderMessages(ctx, query)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReadOrderMessagesCommand(actor, orderID)
	if err != nil {
		return err
	}
	if _, err = s.h.Inbox.ReadOrderMessages(ctx, cmd); err != nil {
		return err
	}

	resp := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

// SendMessage handles POST /api/v1/orders/:id/messages.
func (s *Server) SendMessage(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req MessageRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSendMessageCommand(currentUser(c), orderID, req.Text)
	if err != nil {
		return err
	}
	if err = s.h.Inbox.SendMessage(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// MarkAllMessagesRead handles POST /api/v1/messages/read-all.
func (s *Server) MarkAllMessagesRead(c echo.Context) error {
	cmd, err := commands.NewMarkAllReadCommand(currentUser(c))
	if err != nil {
		return err
	}
	n, err := s.h.Inbox.MarkAllMessagesRead(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}

// ListNotifications handles GET /api/v1/notifications?limit=50.
func (s *Server) ListNotifications(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	query, err := queries.NewInboxQuery(currentUser(c), limit)
	if err != nil {
		return err
	}

	notes, err := s.h.InboxQueries.ListNotifications(c.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := make([]NotificationResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, resp)
}

// UnreadCounts handles GET /api/v1/notifications/unread-count.
func (s *Server) UnreadCounts(c echo.Context) error {
	query, err := queries.NewInboxQuery(currentUser(c), 0)
	if err != nil {
		return err
	}
	counts, err := s.h.InboxQueries.UnreadCounts(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UnreadCountsResponse{
		Notifications: counts.Notifications,
		Messages:      counts.Messages,
	})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	notificationID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkNotificationReadCommand(currentUser(c), notificationID)
	if err != nil {
		return err
	}
	if err = s.h.Inbox.MarkNotificationRead(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all.
func (s *Server) MarkAllNotificationsRead(c echo.Context) error {
	cmd, err := commands.NewMarkAllReadCommand(currentUser(c))
	if err != nil {
		return err
	}
	n, err := s.h.Inbox.MarkAllNotificationsRead(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}
