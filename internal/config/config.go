package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Store backends supported by the server.
const (
	StoreSurreal = "surreal"
	StoreMemory  = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Addr          string
	SessionSecret string
	StoreBackend  string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:          getEnv("APP_ADDR", ":8080"),
		SessionSecret: getEnv("SESSION_SECRET", "insecure-dev-secret"),
		StoreBackend:  getEnv("STORE_BACKEND", StoreMemory),
		DBUrl:         os.Getenv("SURREAL_URL"),
		DBUser:        os.Getenv("SURREAL_USER"),
		DBPass:        os.Getenv("SURREAL_PASS"),
		DBNs:          os.Getenv("SURREAL_NS"),
		DBDb:          os.Getenv("SURREAL_DB"),
	}

	if cfg.StoreBackend == StoreSurreal {
		if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
			log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
