package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	HTTPAddr      string
	SessionSecret string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	UploadDir string
	BaseURL   string

	PersistGlobal  bool
	PersistPrivate bool
}

// New loads configuration from environment variables. A .env file is honored
// when present but never required.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		DBUrl:          os.Getenv("SURREAL_URL"),
		DBUser:         os.Getenv("SURREAL_USER"),
		DBPass:         os.Getenv("SURREAL_PASS"),
		DBNs:           os.Getenv("SURREAL_NS"),
		DBDb:           os.Getenv("SURREAL_DB"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		BaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		PersistGlobal:  getEnvBool("PERSIST_GLOBAL_MESSAGES", true),
		PersistPrivate: getEnvBool("PERSIST_PRIVATE_MESSAGES", false),
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		return nil, fmt.Errorf("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("required environment variable SESSION_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
