// Package http exposes the marketplace as a JSON API on echo. Handlers map
// requests onto commands and queries; authorization and every business rule
// stay in the application and domain layers.
package http

import (
	"context"
	"net/http"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/application/usecases/queries"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateOrder    commands.CreateOrderCommandHandler
	DeliverOrder   commands.DeliverOrderCommandHandler
	CompleteOrder  commands.CompleteOrderCommandHandler
	SubmitReview   commands.SubmitReviewCommandHandler
	SubmitRequest  commands.SubmitRequestCommandHandler
	ResolveRequest commands.ResolveRequestCommandHandler
	SweepOrders    commands.SweepOrdersCommandHandler
	Inbox          commands.InboxCommandHandler
	Packages       commands.PackageCommandHandler
	RegisterUser   commands.RegisterUserCommandHandler
	Authenticate   commands.AuthenticateCommandHandler

	ListOrders    queries.ListOrdersQueryHandler
	GetOrder      queries.GetOrderQueryHandler
	OrderTimeline queries.GetOrderTimelineQueryHandler
	ListPackages  queries.ListPackagesQueryHandler
	InboxQueries  queries.InboxQueryHandler
	Analytics     queries.AnalyticsQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h          Handlers
	tokens     *TokenIssuer
	lookupUser UserLookup
	storage    ports.FileStorage
	metrics    *metrics.Metrics
	maxUpload  int64
	log        *zap.SugaredLogger
}

type Options struct {
	Tokens     *TokenIssuer
	LookupUser UserLookup
	Storage    ports.FileStorage
	Metrics    *metrics.Metrics
	// MaxUploadBytes limits the multipart body of a delivery.
	MaxUploadBytes int64
	Log            *zap.SugaredLogger
}

func NewServer(h Handlers, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &Server{
		h:          h,
		tokens:     opts.Tokens,
		lookupUser: opts.LookupUser,
		storage:    opts.Storage,
		metrics:    opts.Metrics,
		maxUpload:  maxUpload,
		log:        log,
	}
}

// NewEcho builds the echo instance with every route registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(gommonlog.ERROR)
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(s.log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	if s.metrics != nil {
		e.Use(s.metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	s.Routes(e)
	return e
}

// Routes registers every endpoint on e.
func (s *Server) Routes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")
	api.POST("/auth/register", s.RegisterUser)
	api.POST("/auth/login", s.Login)
	api.GET("/packages", s.ListPackages)

	auth := api.Group("", RequireUser(s.tokens, s.lookupUser))
	auth.GET("/me", s.Me)

	auth.POST("/packages", s.CreatePackage)
	auth.PUT("/packages/:id", s.UpdatePackage)
	auth.DELETE("/packages/:id", s.DeletePackage)

	auth.GET("/orders", s.ListOrders)
	auth.POST("/orders", s.CreateOrder)
	auth.GET("/orders/:id", s.GetOrder)
	auth.GET("/orders/:id/timeline", s.GetOrderTimeline)
	auth.POST("/orders/:id/deliver", s.DeliverOrder)
	auth.POST("/orders/:id/complete", s.CompleteOrder)
	auth.POST("/orders/:id/review", s.SubmitReview)
	auth.GET("/orders/:id/files/:name", s.DownloadFile)

	auth.POST("/orders/:id/requests", s.SubmitRequest)
	auth.POST("/orders/:id/requests/approve", s.ApproveRequest)
	auth.POST("/orders/:id/requests/reject", s.RejectRequest)

	auth.GET("/orders/:id/messages", s.ListOrderMessages)
	auth.POST("/orders/:id/messages", s.SendMessage)
	auth.POST("/messages/read-all", s.MarkAllMessagesRead)

	auth.GET("/notifications", s.ListNotifications)
	auth.GET("/notifications/unread-count", s.UnreadCounts)
	auth.POST("/notifications/:id/read", s.MarkNotificationRead)
	auth.POST("/notifications/read-all", s.MarkAllNotificationsRead)

	auth.GET("/analytics", s.Analytics)
}

// sweep applies pending time driven transitions before order reads. A
// failed sweep does not fail the read.
func (s *Server) sweep(ctx context.Context) {
	result, err := s.h.SweepOrders.Handle(ctx, commands.NewSweepOrdersCommand())
	s.metrics.ObserveSweep("read", result.MarkedLate, result.AutoCompleted, err)
	if err != nil {
		s.log.Warnw("sweep_on_read_failed", "error", err)
	}
}

// orderChanged drops cached dashboards after a successful order mutation.
func (s *Server) orderChanged(ctx context.Context) {
	if err := s.h.Analytics.InvalidateDashboards(ctx); err != nil {
		s.log.Warnw("analytics_cache_invalidate_failed", "error", err)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debugw("http_request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			)
			return nil
		},
	})
}
