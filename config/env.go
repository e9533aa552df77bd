package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Alerts AlertConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
}

type AlertConfig struct {
	// Evaluator settings: per-product reorder level plus this expiry window.
	ExpiryWindowDays int
	// Dashboard settings: fixed count threshold and a shorter expiry window.
	// These are separate signals from the evaluator's, not the same threshold.
	DashboardLowStockThreshold int
	DashboardExpiryWindowDays  int
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	expiryWindow, _ := strconv.Atoi(getEnv("ALERT_EXPIRY_WINDOW_DAYS", "90"))
	dashLowStock, _ := strconv.Atoi(getEnv("DASHBOARD_LOW_STOCK_THRESHOLD", "10"))
	dashExpiry, _ := strconv.Atoi(getEnv("DASHBOARD_EXPIRY_WINDOW_DAYS", "30"))

	return Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "meditrack"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "meditrack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "meditrack-dev-secret"),
			TokenTTL:  tokenTTL,
		},
		Alerts: AlertConfig{
			ExpiryWindowDays:           expiryWindow,
			DashboardLowStockThreshold: dashLowStock,
			DashboardExpiryWindowDays:  dashExpiry,
		},
	}
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
