// Package worker consumes the asynq tasks scheduled by the order handlers.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tagging/internal/adapters/out/queue"
	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/metrics"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AutoCompleter completes one delivered order.
type AutoCompleter interface {
	Handle(ctx context.Context, cmd commands.AutoCompleteOrderCommand) (bool, error)
}

type Consumer struct {
	autoCompleter AutoCompleter
	metrics       *metrics.Metrics
	log           *zap.SugaredLogger
}

// NewConsumer accepts nil metrics.
func NewConsumer(autoCompleter AutoCompleter, m *metrics.Metrics, log *zap.SugaredLogger) *Consumer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Consumer{autoCompleter: autoCompleter, metrics: m, log: log}
}

func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		return
	}
	mux.HandleFunc(queue.TaskOrderAutoComplete, c.HandleOrderAutoComplete)
}

// HandleOrderAutoComplete never retries malformed payloads or orders that no
// longer exist. Concurrent modifications are returned so asynq retries them.
func (c *Consumer) HandleOrderAutoComplete(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderAutoCompletePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		c.log.Warnw("worker_auto_complete_unmarshal_failed", "error", err)
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		c.log.Warnw("worker_auto_complete_invalid_payload", "order_id", payload.OrderID)
		return fmt.Errorf("order id: %w: %w", err, asynq.SkipRetry)
	}

	cmd, err := commands.NewAutoCompleteOrderCommand(orderID)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	completed, err := c.autoCompleter.Handle(ctx, cmd)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		c.log.Debugw("worker_auto_complete_skip_missing", "order_id", payload.OrderID)
		return nil
	case err != nil:
		c.log.Warnw("worker_auto_complete_failed", "order_id", payload.OrderID, "error", err)
		return err
	case completed:
		if c.metrics != nil {
			c.metrics.OrdersAutoCompleted.WithLabelValues("queue").Inc()
		}
		c.log.Infow("worker_auto_complete_done", "order_id", payload.OrderID)
	default:
		c.log.Debugw("worker_auto_complete_not_due", "order_id", payload.OrderID)
	}
	return nil
}
