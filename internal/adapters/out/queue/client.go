// Package queue schedules deferred order work on an asynq (redis) queue.
package queue

import (
	"context"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/ports"

	"github.com/hibiken/asynq"
)

const defaultConcurrency = 10

var _ ports.TaskScheduler = (*Client)(nil)

type Config struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	Concurrency int
	Queues      map[string]int
}

// Client enqueues tasks. A disabled client accepts and drops every task so
// callers do not need to check whether a queue is configured.
type Client struct {
	client  *asynq.Client
	enabled bool
	queue   string
}

func NewClient(cfg Config) *Client {
	if !cfg.Enabled {
		return &Client{queue: DefaultQueue}
	}
	return &Client{
		client:  asynq.NewClient(buildRedisOpt(cfg)),
		enabled: true,
		queue:   DefaultQueue,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) ScheduleAutoCompletion(ctx context.Context, orderID kernel.UUID, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if delay < 0 {
		delay = 0
	}

	task, err := NewOrderAutoCompleteTask(OrderAutoCompletePayload{OrderID: orderID.String()})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.ProcessIn(delay))
	return err
}

// BuildServerConfig returns the redis connection and server settings for the
// worker process.
func BuildServerConfig(cfg Config) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultConcurrency
	if cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg Config) asynq.RedisClientOpt {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	return asynq.RedisClientOpt{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
