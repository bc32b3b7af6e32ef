package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the panel gateway reads from the environment.
type Config struct {
	BackendURL    string
	Port          string
	AllowedOrigin string
	WebDir        string

	// TokenStorage selects where the auth slice survives restarts: memory, redis or mysql.
	TokenStorage string
	RedisAddress string
	DBDSN        string

	// APITimeout is zero unless API_TIMEOUT is set; the backend client has no timeout by default.
	APITimeout time.Duration

	GeminiAPIKey string
	LogLevel     string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		GetLogger().Info("no .env file found, using process environment")
	}

	cfg := &Config{
		BackendURL:    os.Getenv("BACKEND_URL"),
		Port:          envOr("PORT", "8080"),
		AllowedOrigin: envOr("ALLOWED_ORIGIN", "http://localhost:5173"),
		WebDir:        envOr("WEB_DIR", "./web"),
		TokenStorage:  strings.ToLower(envOr("TOKEN_STORAGE", "memory")),
		RedisAddress:  envOr("REDIS_ADDRESS", "localhost:6379"),
		DBDSN:         os.Getenv("DB_DSN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}

	if cfg.BackendURL == "" {
		return nil, errors.New("BACKEND_URL not set")
	}
	if !strings.HasSuffix(cfg.BackendURL, "/") {
		cfg.BackendURL += "/"
	}

	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.New("API_TIMEOUT must be a duration like 30s")
		}
		cfg.APITimeout = d
	}

	switch cfg.TokenStorage {
	case "memory", "redis":
	case "mysql":
		if cfg.DBDSN == "" {
			return nil, errors.New("TOKEN_STORAGE=mysql requires DB_DSN")
		}
	default:
		return nil, errors.New("TOKEN_STORAGE must be memory, redis or mysql")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
