package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	AI           AIConfig
	Escalation   EscalationConfig
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

// LoggerConfig configures logging behavior. Encoding is "json" or "console".
type LoggerConfig struct {
	Level    string
	Encoding string
}

// AuthConfig defines token verification parameters. Token issuance lives in
// the identity service; this service only validates bearer tokens.
type AuthConfig struct {
	JWTSecret string
}

// NotificationConfig configures the fanout sinks.
type NotificationConfig struct {
	EmailFrom         string
	SendgridAPIKey    string
	DispatchTimeoutMS int
}

// AIConfig holds endpoints and budgets for the two remote AI providers.
type AIConfig struct {
	ClassifierURL        string
	ClassifierTimeoutSec int
	FallbackURL          string
	FallbackAPIKey       string
	FallbackModel        string
	FallbackTimeoutSec   int
	VerifierURL          string
	VerifierTimeoutSec   int
}

// EscalationConfig controls the stale-report sweep.
type EscalationConfig struct {
	CronSpec    string
	StaleAfterH int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "grievance-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		},
		Notification: NotificationConfig{
			EmailFrom:         getEnv("NOTIFY_EMAIL_FROM", "noreply@jansankalp.gov.in"),
			SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
			DispatchTimeoutMS: getEnvAsInt("NOTIFY_DISPATCH_TIMEOUT_MS", 5000),
		},
		AI: AIConfig{
			ClassifierURL:        os.Getenv("AI_CLASSIFIER_URL"),
			ClassifierTimeoutSec: getEnvAsInt("AI_CLASSIFIER_TIMEOUT_SECONDS", 8),
			FallbackURL:          os.Getenv("AI_FALLBACK_URL"),
			FallbackAPIKey:       os.Getenv("AI_FALLBACK_API_KEY"),
			FallbackModel:        getEnv("AI_FALLBACK_MODEL", "gpt-4o-mini"),
			FallbackTimeoutSec:   getEnvAsInt("AI_FALLBACK_TIMEOUT_SECONDS", 10),
			VerifierURL:          os.Getenv("AI_VERIFIER_URL"),
			VerifierTimeoutSec:   getEnvAsInt("AI_VERIFIER_TIMEOUT_SECONDS", 12),
		},
		Escalation: EscalationConfig{
			CronSpec:    getEnv("ESCALATION_CRON", "@every 15m"),
			StaleAfterH: getEnvAsInt("ESCALATION_STALE_AFTER_HOURS", 24),
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

// DispatchTimeout bounds each fanout sub-dispatch.
func (n NotificationConfig) DispatchTimeout() time.Duration {
	if n.DispatchTimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.DispatchTimeoutMS) * time.Millisecond
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
