package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL  string
	Host         string
	Port         string
	JwtSecret    string
	GeminiAPIKey string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	LogLevel     string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading configuration from environment")
	}

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Host:         os.Getenv("HOST"),
		Port:         os.Getenv("PORT"),
		JwtSecret:    os.Getenv("JWT_SECRET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("REDIS_DB must be an integer, got %q", raw)
		}
		cfg.RedisDB = n
	}
	// Missing credentials are configuration errors: fatal at startup and
	// surfaced to the operator, never to an end user.
	if cfg.JwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set. This is critical for authentication.")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is not set")
	}

	return cfg
}
