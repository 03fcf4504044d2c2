package commands

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/core/ports"

	"go.uber.org/zap"
)

// DeliveryFilePrefix prefixes the stored names of delivery uploads.
const DeliveryFilePrefix = "delivery"

// DeliverOrderCommandHandler checks the order accepts a delivery, stores the
// uploads, records delivery #n and notifies the owner. Once committed it schedules the auto-completion task;
// scheduling failures are logged because the sweep completes the order anyway.
type DeliverOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	storage    ports.FileStorage
	scheduler  ports.TaskScheduler
	clock      kernel.Clock
	log        *zap.SugaredLogger
	dispatcher services.NotificationDispatcher
}

// NewDeliverOrderCommandHandler accepts a nil scheduler when no task queue is configured.
func NewDeliverOrderCommandHandler(
	uowFactory OrderUoWFactory,
	storage ports.FileStorage,
	scheduler ports.TaskScheduler,
	clock kernel.Clock,
	log *zap.SugaredLogger,
) DeliverOrderCommandHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		storage:    storage,
		scheduler:  scheduler,
		clock:      clock,
		log:        log,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireAdmin(cmd.Actor(), "deliver order"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = o.Status().ValidateDeliver(); err != nil {
		return err
	}

	now := h.clock.Now()
	files, err := h.store(ctx, cmd, now)
	if err != nil {
		return err
	}
	if _, err = o.Deliver(cmd.Actor(), cmd.Response(), files, now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = notify(ctx, uow, o, now, h.dispatcher.Delivered); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.scheduleAutoCompletion(ctx, o.ID())
	return nil
}

func (h DeliverOrderCommandHandler) store(
	ctx context.Context,
	cmd DeliverOrderCommand,
	now time.Time,
) ([]order.DeliveryFile, error) {
	adminID := cmd.Actor().ID()
	uploads := cmd.Uploads()
	files := make([]order.DeliveryFile, 0, len(uploads))

	for _, u := range uploads {
		stored, err := h.storage.Save(ctx, u.Content, u.Filename, DeliveryFilePrefix, &adminID)
		if err != nil {
			return nil, err
		}
		file, err := order.NewDeliveryFile(stored.Name, stored.OriginalFilename, stored.Size, now)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (h DeliverOrderCommandHandler) scheduleAutoCompletion(ctx context.Context, orderID kernel.UUID) {
	if h.scheduler == nil {
		return
	}
	if err := h.scheduler.ScheduleAutoCompletion(ctx, orderID, order.AutoCompleteGrace); err != nil {
		h.log.Warnw("auto_complete_schedule_failed", "order_id", orderID.String(), "error", err)
	}
}
