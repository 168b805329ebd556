package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/provider"
	"github.com/decalforge/decalforge/internal/queue"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers task handlers on the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskShipmentPush, c.handleShipmentPush)
}

func (c *Consumer) handleShipmentPush(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_shipment_push_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ShipmentPushPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_shipment_push_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_shipment_push_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.ShippingService == nil {
		logger.Warnw("worker_shipment_push_skip_shipping_service_nil", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.ShippingService.PushShipment(ctx, payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_shipment_push_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrOrderNotShippable):
			logger.Debugw("worker_shipment_push_skip_not_shippable", "order_id", payload.OrderID)
			return nil
		default:
			logger.Warnw("worker_shipment_push_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	logger.Infow("worker_shipment_pushed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"shipment_id", order.ShipmentID,
	)
	return nil
}
