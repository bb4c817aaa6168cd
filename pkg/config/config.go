package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Graph    GraphConfig
	Publish  PublishConfig
	Cleanup  CleanupConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
	Locale   string
}

type ServerConfig struct {
	Port      string
	Host      string
	BodyLimit int // bytes
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Migrate  bool
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	ResultTTL time.Duration
}

// StorageConfig selects where normalized images are hosted and where source
// files are fetched from. Type is "s3" or "local".
type StorageConfig struct {
	Type          string
	Bucket        string
	Region        string
	PublicBaseURL string
	Prefix        string
	SourceBucket  string
	LocalDir      string
	LocalSource   string
}

type GraphConfig struct {
	BaseURL string
	Version string
}

type PublishConfig struct {
	MaxPollAttempts      int
	PollInterval         time.Duration
	MaxPublishRetries    int
	PublishRetryInterval time.Duration
	RequestTimeout       time.Duration
	MaxCarouselItems     int
	MaxConcurrent        int
	Workers              int
}

type CleanupConfig struct {
	Schedule string
	MaxAge   time.Duration
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Locale:   getEnv("APP_LOCALE", "en"),
		},
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", "3000"),
			Host:      getEnv("SERVER_HOST", "localhost"),
			BodyLimit: getEnvAsInt("SERVER_BODY_LIMIT", 50*1024*1024), // 50MB
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "social_publisher"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getEnvAsBool("RUN_AUTO_MIGRATION", false),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			ResultTTL: getEnvAsDuration("REDIS_RESULT_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Type:          getEnv("STORAGE_TYPE", "local"),
			Bucket:        getEnv("STORAGE_BUCKET", ""),
			Region:        getEnv("STORAGE_REGION", "eu-central-1"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			Prefix:        getEnv("STORAGE_PREFIX", "social"),
			SourceBucket:  getEnv("STORAGE_SOURCE_BUCKET", ""),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "uploads"),
			LocalSource:   getEnv("STORAGE_LOCAL_SOURCE_DIR", "media"),
		},
		Graph: GraphConfig{
			BaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com"),
			Version: getEnv("GRAPH_API_VERSION", "v19.0"),
		},
		Publish: PublishConfig{
			MaxPollAttempts:      getEnvAsInt("PUBLISH_MAX_POLL_ATTEMPTS", 10),
			PollInterval:         getEnvAsDuration("PUBLISH_POLL_INTERVAL", 3*time.Second),
			MaxPublishRetries:    getEnvAsInt("PUBLISH_MAX_RETRIES", 3),
			PublishRetryInterval: getEnvAsDuration("PUBLISH_RETRY_INTERVAL", 2*time.Second),
			RequestTimeout:       getEnvAsDuration("PUBLISH_REQUEST_TIMEOUT", 30*time.Second),
			MaxCarouselItems:     getEnvAsInt("PUBLISH_MAX_CAROUSEL_ITEMS", 10),
			MaxConcurrent:        getEnvAsInt("PUBLISH_MAX_CONCURRENT", 4),
			Workers:              getEnvAsInt("PUBLISH_WORKERS", 2),
		},
		Cleanup: CleanupConfig{
			Schedule: getEnv("CLEANUP_SCHEDULE", "0 0 */6 * * *"),
			MaxAge:   getEnvAsDuration("CLEANUP_MAX_AGE", 72*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
