package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata keys set on every published message.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// PublishInTx publishes event as JSON on topic through tx, so the message is
// committed or rolled back with the write that produced it. eventID is copied
// into metadata for consumer-side deduplication; the caller's trace context
// travels with the message.
func (b *EventBus) PublishInTx(ctx context.Context, tx *sql.Tx, topic, eventID string, version int, event any) error {
	msg, err := newMessage(ctx, eventID, version, event)
	if err != nil {
		return fmt.Errorf("events: %s: %w", topic, err)
	}

	// Outbox tables exist once the bus has started, so the tx publisher
	// never initialises schema.
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), newLogAdapter(b.log))
	if err != nil {
		return fmt.Errorf("events: new tx publisher: %w", err)
	}
	if err := wrapOutbox(pub, b.outbox).Publish(topic, msg); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

func newMessage(ctx context.Context, eventID string, version int, event any) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetaEventID, eventID)
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(version))

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
	return msg, nil
}
