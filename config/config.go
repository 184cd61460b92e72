package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	JWT         JWTConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	RateLimiter RateLimiterConfig
	Bulkhead    BulkheadConfig
	Dispatch    DispatchConfig
	Sweeper     SweeperConfig
	OpenAI      OpenAIConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type PostgresConfig struct {
	URL      string // DATABASE_URL takes precedence if set
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
}

type RedisConfig struct {
	URL      string // REDIS_URL takes precedence if set
	Host     string
	Port     int
	Password string
	DB       int
}

type RateLimiterConfig struct {
	MaxRequests   int
	WindowSeconds int
}

type BulkheadConfig struct {
	LocationPool int
	MutationPool int
	AdminPool    int
}

type DispatchConfig struct {
	DefaultSearchRadiusKM float64
	ClusterRadiusKM       float64
	LocationCacheTTLSec   int
	IdempotencyTTLSec     int
}

type SweeperConfig struct {
	// Resources with no location update inside the window go offline.
	StaleAfter time.Duration
	Schedule   string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvInt("PORT", getenvInt("SERVER_PORT", 8080)),
			ShutdownTimeout: time.Duration(getenvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      getenv("JWT_SECRET", "default-secret-change-me"),
			ExpiryHours: time.Duration(getenvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		},
		Postgres: PostgresConfig{
			URL:      getenv("DATABASE_URL", ""),
			Host:     getenv("POSTGRES_HOST", "localhost"),
			Port:     getenvInt("POSTGRES_PORT", 5432),
			User:     getenv("POSTGRES_USER", "disaster_admin"),
			Password: getenv("POSTGRES_PASSWORD", "secure_password"),
			DB:       getenv("POSTGRES_DB", "disaster_response"),
			SSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getenv("REDIS_URL", ""),
			Host:     getenv("REDIS_HOST", "localhost"),
			Port:     getenvInt("REDIS_PORT", 6379),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		RateLimiter: RateLimiterConfig{
			MaxRequests:   getenvInt("RATE_LIMIT_MAX_REQUESTS", 100),
			WindowSeconds: getenvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		Bulkhead: BulkheadConfig{
			LocationPool: getenvInt("BULKHEAD_LOCATION_POOL", 100),
			MutationPool: getenvInt("BULKHEAD_MUTATION_POOL", 50),
			AdminPool:    getenvInt("BULKHEAD_ADMIN_POOL", 20),
		},
		Dispatch: DispatchConfig{
			DefaultSearchRadiusKM: getenvFloat("DISPATCH_SEARCH_RADIUS_KM", 10),
			ClusterRadiusKM:       getenvFloat("SOS_CLUSTER_RADIUS_KM", 2),
			LocationCacheTTLSec:   getenvInt("RESOURCE_LOCATION_CACHE_TTL_SECONDS", 60),
			IdempotencyTTLSec:     getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		},
		Sweeper: SweeperConfig{
			StaleAfter: time.Duration(getenvInt("RESOURCE_STALE_AFTER_MINUTES", 30)) * time.Minute,
			Schedule:   getenv("RESOURCE_SWEEP_SCHEDULE", "@every 5m"),
		},
		OpenAI: OpenAIConfig{
			APIKey: getenv("OPENAI_API_KEY", ""),
			Model:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}

	return cfg, nil
}

func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
