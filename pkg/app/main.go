package app

import (
	"github.com/gorilla/sessions"

	"github.com/boreksan/trayorders/pkg/cache"
	"github.com/boreksan/trayorders/pkg/clock"
	"github.com/boreksan/trayorders/pkg/config"
	"github.com/boreksan/trayorders/pkg/database"
	"github.com/boreksan/trayorders/pkg/events"
	"github.com/boreksan/trayorders/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Passed to every service route registration during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, request_id and shop_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "order placed", "order_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Clock is the single source of "now" for order cutoff and business-day
// computations; tests replace it with clock.NewFixed.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	Clock        clock.Clock
	SessionStore sessions.Store // Redis-backed session store; nil in worker process
}
