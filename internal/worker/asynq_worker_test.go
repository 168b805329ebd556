package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/decalforge/decalforge/internal/provider"
	"github.com/decalforge/decalforge/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleShipmentPushBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskShipmentPush, []byte("{not json"))

	if err := consumer.handleShipmentPush(context.Background(), task); err == nil {
		t.Fatalf("expected an error for a malformed payload")
	}
}

func TestHandleShipmentPushSkipsZeroOrder(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	payload, err := json.Marshal(queue.ShipmentPushPayload{OrderID: 0})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskShipmentPush, payload)

	if err := consumer.handleShipmentPush(context.Background(), task); err != nil {
		t.Fatalf("zero order id must be dropped, got %v", err)
	}
}

func TestHandleShipmentPushSkipsWithoutShippingService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	payload, err := json.Marshal(queue.ShipmentPushPayload{OrderID: 42})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskShipmentPush, payload)

	if err := consumer.handleShipmentPush(context.Background(), task); err != nil {
		t.Fatalf("missing shipping service must not retry, got %v", err)
	}
}
