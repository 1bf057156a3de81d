package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Cache    CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	BcryptCost              int
	BlacklistCleanupMinutes int
}

// CORSConfig controls cross-origin behavior.
type CORSConfig struct {
	Origin string
}

// StorageConfig selects where uploaded product images are advertised from.
type StorageConfig struct {
	Type                string
	LocalDir            string
	CloudinaryCloudName string
	S3Bucket            string
}

// CacheConfig tunes the Redis-backed product cache.
type CacheConfig struct {
	ProductTTLSeconds int
}

// ErrMissingJWTSecret indicates AUTH_JWT_SECRET is unset. There is deliberately no
// fallback secret: an unsigned-by-accident deployment must fail at startup.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required")

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "jewelry-store-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3002"),
			Version:               getEnv("APP_VERSION", "1.0.0"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               jwtSecret,
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 1440),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
			BlacklistCleanupMinutes: getEnvAsInt("AUTH_BLACKLIST_CLEANUP_MINUTES", 60),
		},
		CORS: CORSConfig{
			Origin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		Storage: StorageConfig{
			Type:                getEnv("STORAGE_TYPE", "local"),
			LocalDir:            getEnv("STORAGE_LOCAL_DIR", "uploads/products"),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			S3Bucket:            os.Getenv("AWS_S3_BUCKET"),
		},
		Cache: CacheConfig{
			ProductTTLSeconds: getEnvAsInt("PRODUCT_CACHE_TTL_SECONDS", 300),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsDevelopment reports whether the service runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// CleanupInterval returns how often the token blacklist janitor runs.
func (a AuthConfig) CleanupInterval() time.Duration {
	if a.BlacklistCleanupMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.BlacklistCleanupMinutes) * time.Minute
}

// ProductTTL returns the product cache entry lifetime.
func (c CacheConfig) ProductTTL() time.Duration {
	if c.ProductTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.ProductTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
