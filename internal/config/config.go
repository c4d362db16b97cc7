package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the application settings.
type Config struct {
	HTTPAddr    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration
	AdminEmail  string // recipient of the daily payments digest
	BaseURL     string // used in password-reset links
}

// LoadConfig reads settings from the environment, optionally seeded from a
// .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found")
	}

	expiry, err := time.ParseDuration(os.Getenv("TOKEN_EXPIRY"))
	if err != nil {
		expiry = 24 * time.Hour
	}

	config := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "sanatmerkezi"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key"),
		TokenExpiry: expiry,
		AdminEmail:  getEnv("ADMIN_EMAIL", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
