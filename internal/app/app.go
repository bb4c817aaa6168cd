package app

import (
	"context"
	"fmt"
	"strings"

	"social-publisher/internal/delivery/http/handlers"
	"social-publisher/internal/delivery/http/routers"
	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"
	"social-publisher/internal/infrastructure/queue"
	infra_repo "social-publisher/internal/infrastructure/repositories"
	"social-publisher/internal/usecases"
	"social-publisher/pkg/config"
	"social-publisher/pkg/errors/i18n"
	"social-publisher/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Core provides everything the server and the worker share.
var Core = fx.Options(
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
	fx.Provide(
		config.LoadConfig,
		logger.New,
		NewDatabase,
		NewRedisClient,
		NewStorage,
		NewGraphClient,
		NewDrivers,
		NewJobQueue,
		infra_repo.NewIntegrationRepository,
		infra_repo.NewPublishLogRepository,
		NewNormalizer,
		NewPublisher,
		usecases.NewJobService,
		NewCleanup,
	),
	fx.Invoke(loadTranslations),
)

// Server serves the publish API.
var Server = fx.Options(
	Core,
	fx.Provide(
		handlers.NewPublishHandler,
		NewFiberApp,
	),
	fx.Invoke(startServer),
)

// Worker consumes queued publish jobs and runs the cleanup schedule.
var Worker = fx.Options(
	Core,
	fx.Invoke(startWorkers, startCleanup),
)

func loadTranslations(cfg *config.Config, log *zap.Logger) {
	locale := "en"
	if cfg.App.Locale != "" {
		locale = cfg.App.Locale
	}
	if err := i18n.Load(locale); err != nil {
		log.Warn("translations not loaded", zap.String("locale", locale), zap.Error(err))
	}
}

func NewFiberApp(cfg *config.Config, publishHandler *handlers.PublishHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Server.BodyLimit,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	routers.SetupHealthRoutes(app)
	routers.SetupPublishRoutes(app, publishHandler)
	if strings.ToLower(cfg.Storage.Type) != "s3" {
		routers.SetupStaticRoutes(app, StaticPrefix, cfg.Storage.LocalDir)
	}
	return app
}

func startServer(lc fx.Lifecycle, cfg *config.Config, app *fiber.App, log *zap.Logger) {
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("server starting", zap.String("addr", addr))
				if err := app.Listen(addr); err != nil {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func startWorkers(lc fx.Lifecycle, cfg *config.Config, q repositories.JobQueue, jobs usecases.JobService, log *zap.Logger) {
	var pool *queue.WorkerPool
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			handle := func(ctx context.Context, job dto.PublishJob) {
				jobs.Process(ctx, job)
			}
			pool = queue.NewWorkerPool(cfg.Publish.Workers, q, handle, log.Named("worker"))
			log.Info("workers started", zap.Int("count", cfg.Publish.Workers))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if pool != nil {
				pool.Shutdown()
			}
			return nil
		},
	})
}

func startCleanup(lc fx.Lifecycle, cfg *config.Config, cleanup usecases.CleanupService, log *zap.Logger) error {
	c := cron.New(cron.WithSeconds())
	if _, err := cleanup.Schedule(c, cfg.Cleanup.Schedule); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", cfg.Cleanup.Schedule, err)
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			log.Info("cleanup scheduled", zap.String("schedule", cfg.Cleanup.Schedule))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})
	return nil
}
