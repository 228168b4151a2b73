package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"campushub/internal/storage"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

// ServerConfig is everything cmd/server reads from the environment.
type ServerConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
	RedisURL  string
	CacheTTL  time.Duration
	LogFile   string
	LogLevel  string
	DB        DatabaseConfig
	S3        storage.S3Config
}

// LoadServer reads .env (if present) and then the process environment.
func LoadServer() ServerConfig {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on env vars")
	}

	return ServerConfig{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "supersecret"),
		TokenTTL:  time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		RedisURL:  getEnv("REDIS_URL", ""),
		CacheTTL:  time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		LogFile:   getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "campushub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		S3: storage.S3Config{
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("ignoring non-numeric value %q", v)
		return defaultValue
	}
	return n
}
