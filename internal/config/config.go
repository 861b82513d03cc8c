package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/shop-sphere/internal/catalog"
	"github.com/fjod/shop-sphere/internal/events"
	"github.com/fjod/shop-sphere/internal/storage"
	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	HTTPPort           string
	LogLevel           string
	CatalogBaseURL     string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	CatalogDropStale   bool
	DemoUsername       string
	DemoPassword       string
	Storage            storage.Options
	KafkaBrokers       []string
	KafkaTopic         string
}

// Load reads .env (outside production) and then the environment.
func Load() *Config {
	if os.Getenv("ENV") != "production" {
		// a missing .env is normal; the environment is used as is
		_ = godotenv.Load()
	}
	return loadConfig()
}

func loadConfig() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CatalogBaseURL:     getEnv("CATALOG_BASE_URL", catalog.DefaultBaseURL),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: 1 << 20, // 1MB
		CatalogDropStale:   getBool("CATALOG_DROP_STALE", false),
		DemoUsername:       getEnv("DEMO_USERNAME", "mor_2314"),
		DemoPassword:       getEnv("DEMO_PASSWORD", "83r5^_"),
		Storage: storage.Options{
			Driver:        getEnv("STORAGE_DRIVER", storage.DriverSQLite),
			SQLitePath:    getEnv("STORAGE_SQLITE_PATH", "storefront.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getInt("REDIS_DB", 0),
			Postgres: storage.Credentials{
				Host:     getEnv("POSTGRES_HOST", "localhost"),
				Port:     getInt("POSTGRES_PORT", 5432),
				User:     getEnv("POSTGRES_USER", "postgres"),
				Password: getEnv("POSTGRES_PASSWORD", "postgres"),
				DBName:   getEnv("POSTGRES_DB", "storefront"),
			},
			MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),
		},
		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", events.DefaultTopic),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

// getDuration accepts Go durations ("45s") or plain seconds ("45").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
