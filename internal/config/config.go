package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the process reads from the environment. It
// is built once in main and passed down; nothing else touches os.Getenv
// for these values.
type Config struct {
	MongoURI      string
	MongoDatabase string
	Port          string
	AllowOrigins  []string
}

// Load reads .env (if present) and assembles the Config with defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables.")
	}

	cfg := Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "healthtrack"),
		Port:          getEnv("API_PORT", "8080"),
		AllowOrigins:  []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
	}

	if os.Getenv("JWT_SECRET") == "" {
		logrus.Warn("JWT_SECRET is not set, using insecure fallback key.")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
