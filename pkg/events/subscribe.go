package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/boreksan/trayorders/pkg/logger"
)

// Handler processes one message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// Subscribe dispatches messages on topic to handler in a background goroutine.
//
// The handler's context carries the publisher's trace plus topic and event_id
// log attributes. A message is Acked when the handler succeeds and Nacked
// after handlerAttempts failures; the final error is sent on the returned
// channel, which callers must drain. Close waits for in-flight handlers.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := messageContext(ctx, topic, msg)
			if err := b.handle(msgCtx, msg, handler); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full, dropping error", "error", err)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

// messageContext restores the publisher's trace from metadata and binds the
// message identity to the log context.
func messageContext(ctx context.Context, topic string, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
	return logger.ContextWith(ctx, "topic", topic, "event_id", msg.Metadata.Get(MetaEventID))
}

// handle runs handler with exponential backoff starting at b.retryBase.
func (b *EventBus) handle(ctx context.Context, msg *message.Message, handler Handler) error {
	attempt := 0
	backoff := retry.WithMaxRetries(handlerAttempts-1, retry.NewExponential(b.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := handler(ctx, msg); err != nil {
			b.log.WarnContext(ctx, "events: handler failed",
				"attempt", attempt,
				"max_attempts", handlerAttempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("events: handler failed after %d attempts: %w", attempt, err)
	}
	return nil
}
