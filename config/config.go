package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Storage backends for the persistence layer.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Config holds application configuration loaded from environment variables.
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production

	// Backend API
	APIBaseURL string
	APITimeout time.Duration

	// Persistence
	Storage     string // memory, file, redis
	StorageFile string // path of the snapshot file when Storage is "file"

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// City search throttling
	SearchInterval time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "appstate"),
		Env:     getenv("APP_ENV", "development"),

		APIBaseURL: getenv("API_BASE_URL", "http://localhost:8080/api/v1"),
		APITimeout: getdur("API_TIMEOUT", 15*time.Second),

		Storage:     getenv("STORAGE_BACKEND", StorageMemory),
		StorageFile: getenv("STORAGE_FILE", "appstate.json"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),
		RedisPrefix:   getenv("REDIS_PREFIX", "appstate"),

		SearchInterval: getdur("SEARCH_INTERVAL", 300*time.Millisecond),
	}
}
