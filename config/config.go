package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup and passed
// to the components that need it.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	RedisAddr string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// Load reads configuration from the environment, with .env as a
// development convenience.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// fine in production, env vars come from the platform
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		EmailUser:           os.Getenv("EMAIL_USER"),
		EmailPass:           os.Getenv("EMAIL_PASS"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
		}
		cfg.SMTPPort = p
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
