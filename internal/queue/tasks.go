package queue

import (
	"encoding/json"

	"github.com/decalforge/decalforge/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskShipmentPush forwards a paid order to the shipping provider.
	TaskShipmentPush = constants.TaskShipmentPush
)

// ShipmentPushPayload carries the order to forward.
type ShipmentPushPayload struct {
	OrderID uint `json:"order_id"`
}

// NewShipmentPushTask builds a shipment push task.
func NewShipmentPushTask(payload ShipmentPushPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShipmentPush, body), nil
}
