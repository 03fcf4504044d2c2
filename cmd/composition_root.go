package cmd

import (
	"context"
	"errors"

	httpin "tagging/internal/adapters/in/http"
	"tagging/internal/adapters/in/worker"
	"tagging/internal/adapters/out/filestorage"
	"tagging/internal/adapters/out/postgres"
	"tagging/internal/adapters/out/queue"
	"tagging/internal/adapters/out/rediscache"
	"tagging/internal/config"
	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/application/usecases/queries"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/core/ports"
	"tagging/internal/jobs"
	"tagging/internal/pkg/logger"
	"tagging/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        *config.Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *zap.Logger
	metrics    *metrics.Metrics
	storage    *filestorage.LocalStorage
	scheduler  *queue.Client
	cache      ports.AnalyticsCache
	closers    []func() error
}

// NewCompositionRoot accepts a nil clock and uses the system clock in the
// configured timezone.
func NewCompositionRoot(cfg *config.Config, gormDB *gorm.DB, log *zap.Logger, clock kernel.Clock) (*CompositionRoot, error) {
	if clock == nil {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		clock = kernel.NewSystemClock(loc)
	}

	storage, err := filestorage.NewLocalStorage(cfg.Upload.Dir, clock)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      clock,
		logger:     log,
		metrics:    metrics.New(prometheus.NewRegistry()),
		storage:    storage,
		scheduler:  queue.NewClient(cfg.Queue.ToQueueConfig()),
	}
	c.closers = append(c.closers, c.scheduler.Close)

	if cfg.Redis.Enabled {
		redisCache := rediscache.New(cfg.Redis.ToCacheOptions())
		c.cache = redisCache
		c.closers = append(c.closers, redisCache.Close)
	}
	return c, nil
}

func (c *CompositionRoot) Config() *config.Config { return c.cfg }

func (c *CompositionRoot) Logger() *zap.Logger { return c.logger }

// Close releases the queue and cache connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	for _, closeFn := range c.closers {
		errList = append(errList, closeFn())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) inboxUoWFactory() commands.InboxUoWFactory {
	return FuncInboxUoWFactory(func() commands.InboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) catalogUoWFactory() commands.CatalogUoWFactory {
	return FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.fullUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(
		c.orderUoWFactory(), c.storage, c.scheduler, c.clock, logger.Component(c.logger, "deliver"))
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSubmitReviewCommandHandler() commands.SubmitReviewCommandHandler {
	return commands.NewSubmitReviewCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSubmitRequestCommandHandler() commands.SubmitRequestCommandHandler {
	return commands.NewSubmitRequestCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateResolveRequestCommandHandler() commands.ResolveRequestCommandHandler {
	return commands.NewResolveRequestCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSweepOrdersCommandHandler() commands.SweepOrdersCommandHandler {
	return commands.NewSweepOrdersCommandHandler(c.orderUoWFactory(), c.clock, logger.Component(c.logger, "sweep"))
}

func (c *CompositionRoot) CreateAutoCompleteOrderCommandHandler() commands.AutoCompleteOrderCommandHandler {
	return commands.NewAutoCompleteOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateInboxCommandHandler() commands.InboxCommandHandler {
	return commands.NewInboxCommandHandler(c.inboxUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreatePackageCommandHandler() commands.PackageCommandHandler {
	return commands.NewPackageCommandHandler(c.catalogUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAuthenticateCommandHandler() commands.AuthenticateCommandHandler {
	return commands.NewAuthenticateCommandHandler(c.userUoWFactory())
}

func (c *CompositionRoot) CreateSeedCommandHandler() commands.SeedCommandHandler {
	return commands.NewSeedCommandHandler(c.fullUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListPackagesQueryHandler() queries.ListPackagesQueryHandler {
	return queries.NewListPackagesQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateInboxQueryHandler() queries.InboxQueryHandler {
	return queries.NewInboxQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateAnalyticsQueryHandler() queries.AnalyticsQueryHandler {
	return queries.NewAnalyticsQueryHandler(c.uowFactory, c.gormDB, c.cache, c.cfg.Redis.CacheTTL, c.clock)
}

// LookupUser loads the user behind an access token outside of any
// transaction.
func (c *CompositionRoot) LookupUser(ctx context.Context, id kernel.UUID) (*user.User, error) {
	return c.uowFactory.Create().UserRepository().Get(ctx, id)
}

func (c *CompositionRoot) CreateServer() (*httpin.Server, error) {
	tokens, err := httpin.NewTokenIssuer(c.cfg.JWT.Secret, c.cfg.JWT.TTL, c.clock)
	if err != nil {
		return nil, err
	}

	handlers := httpin.Handlers{
		CreateOrder:    c.CreateCreateOrderCommandHandler(),
		DeliverOrder:   c.CreateDeliverOrderCommandHandler(),
		CompleteOrder:  c.CreateCompleteOrderCommandHandler(),
		SubmitReview:   c.CreateSubmitReviewCommandHandler(),
		SubmitRequest:  c.CreateSubmitRequestCommandHandler(),
		ResolveRequest: c.CreateResolveRequestCommandHandler(),
		SweepOrders:    c.CreateSweepOrdersCommandHandler(),
		Inbox:          c.CreateInboxCommandHandler(),
		Packages:       c.CreatePackageCommandHandler(),
		RegisterUser:   c.CreateRegisterUserCommandHandler(),
		Authenticate:   c.CreateAuthenticateCommandHandler(),

		ListOrders:    c.CreateListOrdersQueryHandler(),
		GetOrder:      c.CreateGetOrderQueryHandler(),
		OrderTimeline: c.CreateGetOrderTimelineQueryHandler(),
		ListPackages:  c.CreateListPackagesQueryHandler(),
		InboxQueries:  c.CreateInboxQueryHandler(),
		Analytics:     c.CreateAnalyticsQueryHandler(),
	}

	return httpin.NewServer(handlers, httpin.Options{
		Tokens:         tokens,
		LookupUser:     c.LookupUser,
		Storage:        c.storage,
		Metrics:        c.metrics,
		MaxUploadBytes: c.cfg.Upload.MaxSize,
		Log:            logger.Component(c.logger, "http"),
	}), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepOrdersCommandHandler(),
		c.cfg.Order.SweepSchedule,
		c.metrics,
		logger.Component(c.logger, "jobs"),
	)
}

func (c *CompositionRoot) CreateConsumer() *worker.Consumer {
	return worker.NewConsumer(c.CreateAutoCompleteOrderCommandHandler(), c.metrics, logger.Component(c.logger, "worker"))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncInboxUoWFactory func() commands.InboxUoW

func (f FuncInboxUoWFactory) Create() commands.InboxUoW {
	return f()
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
