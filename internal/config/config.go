package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string
	LogLevel    string
}

const defaultDSN = "host=localhost user=trip_admin password=trip_password_123 dbname=trip_planner port=5432 sslmode=disable"

func Load() *Config {
	// .env é opcional; variáveis de ambiente têm precedência
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "3001"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080,http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseDSN == defaultDSN {
		slog.Warn("DATABASE_DSN usando valor padrão; defina a sua conexão para produção")
	}

	return cfg
}

// SlogLevel converte o nível configurado para slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
