package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/codeinozzz/capstone-prog-5-front/docs/swagger"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/auth"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/cache"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/config"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/events"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/navigation"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/telemetry"
	bookingApi "github.com/codeinozzz/capstone-prog-5-front/services/booking/application/api"
	bookingSvcs "github.com/codeinozzz/capstone-prog-5-front/services/booking/application/services"
	catalogApi "github.com/codeinozzz/capstone-prog-5-front/services/catalog/application/api"
	identityApi "github.com/codeinozzz/capstone-prog-5-front/services/identity/application/api"
	"github.com/codeinozzz/capstone-prog-5-front/services/identity/infrastructure/clerk"
)

// @title					Hotel Booking Gateway API
// @version				1.0
// @description			Server-side gateway for the hotel booking front-end: catalog browsing, guarded booking forms, and hosted sign-in.
// @contact.name			API Support
// @contact.email			support@hotelbooking.dev
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional — log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	eventBus := events.NewEventBus(log)
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	backendClient := restapi.New(cfg.BackendBaseURL, log)

	// The identity provider loads its signing keys in the background; requests
	// that need a verdict before then wait on provider.Ready().
	provider := clerk.NewClient(clerk.Config{
		FrontendURL:   cfg.IdentityFrontendURL,
		APIURL:        cfg.IdentityAPIURL,
		APIKey:        cfg.IdentityAPIKey,
		WebhookSecret: cfg.IdentityWebhookSecret,
	}, log)
	providerCtx, stopProvider := context.WithCancel(ctx)
	defer stopProvider()
	go provider.Start(providerCtx)

	cookieStore := auth.NewSessionStore(
		redisClient.Client(),
		[]byte(cfg.SessionAuthKey),
		[]byte(cfg.SessionEncryptionKey),
		cfg.Environment == config.EnvProduction,
	)
	sessions := auth.NewSessionManager(cookieStore, provider, log)
	log.Info("session store initialized", "backend", "redis")

	appConfig := &app.Application{
		Cfg:      cfg,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Backend:  backendClient,
		Sessions: sessions,
		Nav:      navigation.NewGuard(log),
	}

	if err := bookingSvcs.SubscribeConfirmationLog(ctx, eventBus, log); err != nil {
		log.Error("failed to subscribe confirmation log", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		Redis:    redisClient,
		EventBus: eventBus,
		Backend:  backendClient,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Deactivation challenges are resolved here regardless of which page
	// raised them.
	r.Post("/navigation/leave", navigation.LeaveHandler(appConfig.Nav, log))

	identityApi.IdentityRoutes(r, appConfig, provider)
	catalogApi.CatalogRoutes(r, appConfig)
	bookingApi.BookingRoutes(r, appConfig)

	// Unknown routes are still page navigations, so they run the
	// deactivation guard before landing on the not-found page.
	guardLeave := navigation.Middleware(appConfig.Nav, appConfig.Sessions.SID, log)
	notFound := func(w http.ResponseWriter, req *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Page not found")
	}
	r.With(guardLeave).Get("/404", notFound)
	r.NotFound(guardLeave(http.HandlerFunc(notFound)).ServeHTTP)

	srv := httpx.NewServer(cfg.ListenAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
