package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"dehusync/docs"
	"dehusync/internal/config"
	"dehusync/internal/database"
	"dehusync/internal/database/migration"
	"dehusync/internal/dehu"
	handlers "dehusync/internal/http/handler"
	"dehusync/internal/http/middleware"
	"dehusync/internal/otel"
	"dehusync/internal/repository/postgres"
	"dehusync/internal/service"
	"dehusync/internal/storage"
)

// @title DEHU Sync API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	var logger *zap.Logger
	if cfg.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Receipt archive (S3-compatible, MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	factory := dehu.NewFactory(&http.Client{
		Timeout:   cfg.Sync.RemoteCallTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, logger)

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register sync metrics", zap.Error(err))
	}

	configRepo := postgres.NewConfigurationPostgres(db)
	notifRepo := postgres.NewNotificationPostgres(db)
	attachRepo := postgres.NewAttachmentPostgres(db)

	window := service.Window{Days: cfg.Sync.FetchWindowDays, Location: cfg.Location()}
	svc := service.NewNotificationService(service.Deps{
		Configurations:   configRepo,
		Notifications:    notifRepo,
		Attachments:      attachRepo,
		Store:            objStore,
		Reconciler:       service.NewReconciler(factory, notifRepo, window, metrics, logger),
		Processor:        service.NewProcessor(factory, notifRepo, service.NewAttachmentRetriever(factory, attachRepo, metrics, logger), metrics, logger),
		Receipts:         service.NewReceiptFetcher(factory, metrics, logger),
		ReceiptURLExpiry: cfg.Sync.ReceiptURLExpiry,
		Logger:           logger,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, svc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		addr := ":" + cfg.Port
		logger.Info("http server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}
