package app

import (
	"github.com/codeinozzz/capstone-prog-5-front/pkg/auth"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/cache"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/config"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/events"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/navigation"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service *Routes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "processing booking", "booking_id", id)
//	app.Logger.ErrorContext(ctx, "failed to submit", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Cfg      *config.Config
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Backend  *restapi.Client      // shared hotel REST backend client
	Sessions *auth.SessionManager // browser sessions + per-session state stores
	Nav      *navigation.Guard    // deactivation guard registry
}
