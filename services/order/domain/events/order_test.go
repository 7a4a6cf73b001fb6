package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/services/order/domain/events"
)

func jsonFields(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	return raw
}

func TestOrderEvents_JSONFieldNames(t *testing.T) {
	created := time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event any
	}{
		{"placed", events.OrderPlacedEvent{
			EventID: uuid.New(), Version: 1, OrderID: uuid.New(), ShopID: uuid.New(),
			Status: "WAITING", TotalPrice: decimal.RequireFromString("361.50"), ItemCount: 1,
			OrderCreatedAt: created, OccurredAt: created,
		}},
		{"updated", events.OrderUpdatedEvent{
			EventID: uuid.New(), Version: 1, OrderID: uuid.New(), ShopID: uuid.New(),
			Status: "CANCELLED", TotalPrice: decimal.Zero,
			OrderCreatedAt: created, OccurredAt: created.Add(time.Hour),
		}},
	}

	want := []string{"event_id", "version", "order_id", "shop_id", "status", "total_price", "item_count", "order_created_at", "occurred_at"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := jsonFields(t, tt.event)
			for _, field := range want {
				if _, ok := raw[field]; !ok {
					t.Errorf("expected JSON field %q not found", field)
				}
			}
			if _, ok := raw["total_price"].(string); !ok {
				t.Errorf("total_price should marshal as a string, got %T", raw["total_price"])
			}
		})
	}
}

func TestOrderPlacedEvent_RoundTripKeepsCreatedAt(t *testing.T) {
	created := time.Date(2026, 3, 2, 23, 45, 0, 0, time.FixedZone("TRT", 3*60*60))
	in := events.OrderPlacedEvent{EventID: uuid.New(), OrderID: uuid.New(), OrderCreatedAt: created}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out events.OrderPlacedEvent
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.OrderCreatedAt.Equal(created) {
		t.Fatalf("OrderCreatedAt = %v, want %v", out.OrderCreatedAt, created)
	}
}

func TestTopics(t *testing.T) {
	if events.TopicOrderPlaced == events.TopicOrderUpdated {
		t.Fatal("topics must differ")
	}
}
