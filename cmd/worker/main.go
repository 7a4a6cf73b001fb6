package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/boreksan/trayorders/pkg/app"
	"github.com/boreksan/trayorders/pkg/cache"
	"github.com/boreksan/trayorders/pkg/clock"
	"github.com/boreksan/trayorders/pkg/config"
	"github.com/boreksan/trayorders/pkg/database"
	"github.com/boreksan/trayorders/pkg/events"
	"github.com/boreksan/trayorders/pkg/logger"
	"github.com/boreksan/trayorders/pkg/telemetry"
	catalogEvents "github.com/boreksan/trayorders/services/catalog/domain/events"
	orderEvents "github.com/boreksan/trayorders/services/order/domain/events"
	domainsvcs "github.com/boreksan/trayorders/services/order/domain/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		return err
	}

	log := logger.New(cfg)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	// Close waits for in-flight handlers before returning.
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	a := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Clock:    clock.NewSystem(loc),
	}

	if err := registerSubscribers(ctx, a); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down worker...")
	return nil
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	summaries := cache.NewDailySummaryCache(a.Redis, a.Config.DailySummaryTTL)
	handlers := map[string]func(context.Context, *message.Message) error{
		catalogEvents.TopicProductCreated: handleProductCreated(a),
		orderEvents.TopicOrderPlaced:      handleOrderPlaced(a, summaries),
		orderEvents.TopicOrderUpdated:     handleOrderUpdated(a, summaries),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error",
					"topic", topic,
					"error", err,
				)
			}
		}(topic)
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleProductCreated returns a handler for product.created events.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
// Warms the Redis read-model cache so subsequent GetProduct calls are served from cache.
func handleProductCreated(a *app.Application) func(context.Context, *message.Message) error {
	productCache := cache.NewProductCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt catalogEvents.ProductCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := productCache.Set(ctx, &cache.CachedProduct{
			ID:           evt.ProductID,
			Name:         evt.Name,
			Description:  evt.Description,
			PricePortion: evt.PricePortion,
			PriceTray:    evt.PriceTray,
			CreatedAt:    evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for product.created",
				"product_id", evt.ProductID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed", "product_id", evt.ProductID)
		}

		return nil
	}
}

// handleOrderPlaced drops the cached daily summary for the business day the
// new order belongs to.
func handleOrderPlaced(a *app.Application, summaries *cache.DailySummaryCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt orderEvents.OrderPlacedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		return invalidateSummary(ctx, a, summaries, evt.OrderID.String(), evt.OrderCreatedAt)
	}
}

// handleOrderUpdated does the same for status changes and reconciliation shrinks.
func handleOrderUpdated(a *app.Application, summaries *cache.DailySummaryCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt orderEvents.OrderUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		return invalidateSummary(ctx, a, summaries, evt.OrderID.String(), evt.OrderCreatedAt)
	}
}

// invalidateSummary returns the Redis error so the EventBus retries the message.
func invalidateSummary(ctx context.Context, a *app.Application, summaries *cache.DailySummaryCache, orderID string, createdAt time.Time) error {
	day := domainsvcs.BusinessDayOf(createdAt.In(a.Clock.Now().Location()))
	if err := summaries.Invalidate(ctx, day.Start); err != nil {
		a.Logger.WarnContext(ctx, "daily summary invalidation failed",
			"order_id", orderID, "day", day.Key(), "error", err)
		return err
	}
	a.Logger.DebugContext(ctx, "daily summary invalidated", "order_id", orderID, "day", day.Key())
	return nil
}
