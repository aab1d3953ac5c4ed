package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instaquote/config"
	"instaquote/cron"
	"instaquote/handlers"
	"instaquote/middleware"
	"instaquote/routes"
	"instaquote/services/measure"
	"instaquote/services/notification"
	"instaquote/services/pricing"
	"instaquote/services/quote"
	"instaquote/services/ratelimit"
	"instaquote/services/session"
	"instaquote/services/tenant"
	"instaquote/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	registry, err := tenant.Load(cfg.TenantsFile, cfg.OwnerEmail, cfg.PushoverBCCEmail, cfg.DefaultContactPhone)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load tenants: %v", err)
	}

	// Sessions fall back to process memory when Redis is down at boot.
	var store session.Store
	var healthClients []*redis.Client
	if err := utils.InitSessionCache(); err != nil {
		logger.Warn("main: redis unavailable, keeping sessions in memory", zap.Error(err))
		store = session.NewMemoryStore(session.DefaultTTL)
	} else {
		store = session.NewRedisStore(utils.SessionClient, session.DefaultTTL)
		healthClients = append(healthClients, utils.SessionClient)
	}

	mailer := notification.NewSendGridMailer(notification.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	})
	if err := mailer.CheckConfig(); err != nil {
		logger.Warn("main: mail delivery is not configured; submissions will fail", zap.Error(err))
	}
	retrier := notification.NewRetrier(mailer, logger)

	var customer notification.Dispatcher = notification.NewInlineDispatcher(retrier)
	var worker *asynq.Server
	var queue *asynq.Client
	if cfg.MailQueueEnabled {
		queue = asynq.NewClient(cron.RedisOpt())
		customer = notification.NewQueueDispatcher(queue)
		worker = cron.InitCustomerEmailWorker(ctx, retrier, logger)
		healthClients = append(healthClients, utils.GetQueueClient())
	}
	utils.StartHealthMonitor(ctx, healthClients, utils.HealthCheckInterval)

	// services.
	geometry := measure.OrbGeometry{}
	quoteService := quote.NewService(pricing.NewRegistry(), retrier, customer, logger)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	measureHandler := handlers.NewMeasureHandler(geometry)
	geocodeHandler := handlers.NewGeocodeHandler(measure.NewGoogleGeocoder(cfg.GoogleAPIKey))
	sessionHandler := handlers.NewSessionHandler(store, geometry)

	handlerBundle := &handlers.HandlerBundle{
		Tenants: registry,
		QuoteLimiter: ratelimit.New(ratelimit.Limits{
			PerMinute: cfg.QuoteLimitPerMinute,
			PerHour:   cfg.QuoteLimitPerHour,
		}),
		SelfOrigin: cfg.PublicOrigin,

		SubmitQuote:       quoteHandler.SubmitQuote,
		PreviewQuote:      quoteHandler.PreviewQuote,
		SubmitFenceQuote:  quoteHandler.SubmitFenceQuote,
		PreviewFenceQuote: quoteHandler.PreviewFenceQuote,
		GetCatalog:        quoteHandler.GetCatalog,

		GetTenant: handlers.GetTenant,

		Measure:       measureHandler.Measure,
		ReplayMeasure: measureHandler.ReplayMeasure,
		Geocode:       geocodeHandler.GeocodeAddress,

		CreateSession: sessionHandler.CreateSession,
		GetSession:    sessionHandler.GetSession,
		UpdateSession: sessionHandler.UpdateSession,
		BeginSession:  sessionHandler.BeginSession,
		DeleteSession: sessionHandler.DeleteSession,
	}

	// The funnel is embedded cross-site, so production cookies must be SameSite=None.
	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieOpts := sessions.Options{
		Path:     "/",
		MaxAge:   int(session.DefaultTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if config.IsProduction() {
		cookieOpts.Secure = true
		cookieOpts.SameSite = http.SameSiteNoneMode
	}
	cookieStore.Options(cookieOpts)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	router.Use(sessions.Sessions(utils.SessionCookieName, cookieStore))

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
	_ = logger.Sync()
}
