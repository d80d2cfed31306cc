package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret signs tokens outside production when JWT_SECRET is unset.
const DevJWTSecret = "studygator-dev-secret"

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DB DatabaseConfig

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL string

	InstitutionDomain string
	MaxUploadBytes    int64

	RateLimitMessage time.Duration
	RateLimitApply   time.Duration

	ShutdownTimeout time.Duration
	RunMigrations   bool
	SeedDemo        bool

	// Warnings collects non-fatal findings for the caller to log once a logger exists.
	Warnings []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "studygator"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisURL:          os.Getenv("REDIS_URL"),
		InstitutionDomain: strings.TrimPrefix(getEnv("INSTITUTION_DOMAIN", "sfsu.edu"), "@"),
	}

	var err error
	if cfg.DB.MaxConns, err = parseInt("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}

	uploadMB, err := parseInt("MAX_UPLOAD_MB", 25)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20

	// Parsing durations
	if cfg.JWTTTL, err = parseDuration("JWT_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.RateLimitMessage, err = parseDuration("RATE_LIMIT_MESSAGE", "5s"); err != nil {
		return nil, err
	}
	if cfg.RateLimitApply, err = parseDuration("RATE_LIMIT_APPLY", "1m"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.RunMigrations, err = strconv.ParseBool(getEnv("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
	}
	cfg.SeedDemo, err = strconv.ParseBool(getEnv("SEED_DEMO", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = DevJWTSecret
		c.Warnings = append(c.Warnings, "JWT_SECRET is not set, using the development secret")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.DB.MaxConns < 1 {
		return errors.New("DB_MAX_CONNS must be at least 1")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	if c.InstitutionDomain == "" {
		return errors.New("INSTITUTION_DOMAIN must not be empty")
	}
	if c.SeedDemo && c.IsProduction() {
		return errors.New("SEED_DEMO cannot be enabled in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
