package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"social-publisher/internal/domain/repositories"
	"social-publisher/internal/infrastructure/db"
	"social-publisher/internal/infrastructure/platform"
	"social-publisher/internal/infrastructure/queue"
	"social-publisher/internal/infrastructure/storage"
	"social-publisher/internal/usecases"
	"social-publisher/pkg/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StaticPrefix is the URL path under which local storage is served.
const StaticPrefix = "/static"

func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	database, err := db.NewPostgresDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Migrate {
		if err := db.Migrate(database); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := database.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return database, nil
}

func NewRedisClient(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis is unreachable: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

type StorageResult struct {
	fx.Out

	Objects repositories.ObjectStorage
	Source  repositories.MediaStore
}

// NewStorage builds the storage backend selected by STORAGE_TYPE.
func NewStorage(cfg *config.Config) (StorageResult, error) {
	switch strings.ToLower(cfg.Storage.Type) {
	case "s3":
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.Storage.Bucket, cfg.Storage.SourceBucket, cfg.Storage.Region, cfg.Storage.PublicBaseURL)
		if err != nil {
			return StorageResult{}, err
		}
		return StorageResult{Objects: s3Storage, Source: s3Storage}, nil
	case "local", "":
		baseURL := cfg.Storage.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://%s:%s%s", cfg.Server.Host, cfg.Server.Port, StaticPrefix)
		}
		local := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.LocalSource, baseURL)
		return StorageResult{Objects: local, Source: local}, nil
	default:
		return StorageResult{}, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

func NewGraphClient(cfg *config.Config) *platform.GraphClient {
	return platform.NewGraphClient(cfg.Graph.BaseURL, cfg.Graph.Version, cfg.Publish.RequestTimeout, &http.Client{})
}

type DriversResult struct {
	fx.Out

	Instagram usecases.PlatformDriver `group:"drivers"`
	Facebook  usecases.PlatformDriver `group:"drivers"`
}

func NewDrivers(cfg *config.Config, client *platform.GraphClient, log *zap.Logger) DriversResult {
	opts := platform.OptionsFromConfig(cfg.Publish)
	return DriversResult{
		Instagram: platform.NewInstagramDriver(client, opts, log.Named("instagram")),
		Facebook:  platform.NewFacebookDriver(client, log.Named("facebook")),
	}
}

func NewJobQueue(rdb *redis.Client, cfg *config.Config) repositories.JobQueue {
	return queue.NewRedisQueue(rdb, cfg.Redis.ResultTTL)
}

func NewNormalizer(cfg *config.Config, source repositories.MediaStore, objects repositories.ObjectStorage, log *zap.Logger) usecases.NormalizerService {
	return usecases.NewNormalizerService(source, objects, cfg.Storage.Prefix, log.Named("normalizer"))
}

type PublisherParams struct {
	fx.In

	Config       *config.Config
	Integrations repositories.IntegrationRepository
	Normalizer   usecases.NormalizerService
	PublishLogs  repositories.PublishLogRepository
	Drivers      []usecases.PlatformDriver `group:"drivers"`
	Log          *zap.Logger
}

func NewPublisher(p PublisherParams) usecases.PublisherService {
	return usecases.NewPublisherService(p.Integrations, p.Normalizer, p.PublishLogs, p.Config.Publish.MaxConcurrent, p.Log.Named("publisher"), p.Drivers...)
}

func NewCleanup(cfg *config.Config, objects repositories.ObjectStorage, log *zap.Logger) usecases.CleanupService {
	return usecases.NewCleanupService(objects, cfg.Storage.Prefix, cfg.Cleanup.MaxAge, log.Named("cleanup"))
}
