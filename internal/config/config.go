package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MemoryDSN selects the in-process user store instead of postgres.
const MemoryDSN = "memory"

type Config struct {
	Env  string
	Port int

	DBURL     string
	DBMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	SessionTTL    time.Duration
	SessionCookie string

	RequestTimeout time.Duration

	OtelEnabled  bool
	OtelEndpoint string

	SeedUserName     string
	SeedUserEmail    string
	SeedUserPassword string
}

func Load() Config {
	// a missing .env is normal outside local dev
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		DBURL:     buildDBURL(),
		DBMigrate: getEnvBool("DB_MIGRATE", true),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret-change-me"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionCookie: getEnv("SESSION_COOKIE", "postboard.sid"),

		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_MS", 5000)) * time.Millisecond,

		OtelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		SeedUserName:     getEnv("SEED_USER_NAME", "Admin"),
		SeedUserEmail:    os.Getenv("SEED_USER_EMAIL"),
		SeedUserPassword: os.Getenv("SEED_USER_PASSWORD"),
	}
}

// UseMemoryStore reports whether users live in process memory.
func (c Config) UseMemoryStore() bool {
	return c.DBURL == MemoryDSN
}

// UseRedisSessions reports whether sessions are kept in redis.
func (c Config) UseRedisSessions() bool {
	return c.RedisAddr != ""
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postboard")
	pass := getEnv("DB_PASSWORD", "postboard")
	name := getEnv("DB_NAME", "postboard")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env var, using fallback", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			slog.Warn("invalid bool env var, using fallback", "key", key, "value", v)
			return fallback
		}

		return b
	}
	return fallback
}
