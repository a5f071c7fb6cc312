package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultJWTAccessTTL    = "24h"
	defaultUploadDir       = "./uploads"
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultDBMaxOpenConns  = "20"
	defaultDBMaxIdleConns  = "5"
	defaultDBConnLifetime  = "30m"
	defaultDBConnIdleTime  = "5m"
	defaultMigrationsPath  = "./migrations"
)

// Config holds the runtime configuration of the intake service.
// Everything comes from the environment; a local .env file is honoured
// in development.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	// Attachment store
	UploadDir     string
	PublicBaseURL string

	// Connection pool
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnLifetime  time.Duration
	DBConnIdleTime  time.Duration

	MigrationsPath string
}

// Load reads the environment (plus .env when present) into a Config.
// DATABASE_URL and JWT_SECRET are required; everything else has a default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:           getEnv("PORT", defaultPort),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		UploadDir:      getEnv("UPLOAD_DIR", defaultUploadDir),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL), "/"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is empty")
	}

	var err error
	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}
	if cfg.DBConnLifetime, err = parseDurationEnv("DB_CONN_MAX_LIFETIME", defaultDBConnLifetime); err != nil {
		return nil, err
	}
	if cfg.DBConnIdleTime, err = parseDurationEnv("DB_CONN_MAX_IDLE_TIME", defaultDBConnIdleTime); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = parseIntEnv("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = parseIntEnv("DB_MAX_IDLE_CONNS", defaultDBMaxIdleConns); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, raw, err)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, raw, err)
	}
	return n, nil
}
