package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue = "default"

	// TaskOrderAutoComplete completes a delivered order once its grace period
	// has elapsed.
	TaskOrderAutoComplete = "order:auto_complete"
)

type OrderAutoCompletePayload struct {
	OrderID string `json:"order_id"`
}

func NewOrderAutoCompleteTask(payload OrderAutoCompletePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderAutoComplete, body), nil
}
