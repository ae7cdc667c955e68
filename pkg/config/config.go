package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the placeholder secret used when JWT_SECRET is unset.
const DefaultJWTSecret = "your-secret-key"

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	LogFormat   string

	// Persistence
	StorageDriver         string // firestore, mongo, memory
	FirebaseProject       string
	ServiceAccountJSON    string
	ServiceAccountPath    string
	MongoURI              string
	MongoDatabase         string
	StorageBucket         string
	RedisAddr             string
	RedisPassword         string
	AMQPURL               string
	AMQPExchange          string
	RealtimeAllowedOrigin string

	// Auth
	AuthProvider string // jwt, firebase
	JWTSecret    string
	JWTExpiry    int64
	JWKSURL      string

	// Translation
	TranslateAPIKey          string
	MyMemoryEmail            string
	TranslationRateLimit     int
	TranslationRateWindow    time.Duration
	TranslationCacheTTL      time.Duration
	TranslationCacheSize     int
	TranslationBatchWorkers  int
	TranslationBatchInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),

		StorageDriver:         getEnv("STORAGE_DRIVER", "firestore"),
		FirebaseProject:       getEnv("FIREBASE_PROJECT_ID", ""),
		ServiceAccountJSON:    getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath:    getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnv("MONGO_DATABASE", "sheworks"),
		StorageBucket:         getEnv("STORAGE_BUCKET", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		AMQPURL:               getEnv("AMQP_URL", ""),
		AMQPExchange:          getEnv("AMQP_EXCHANGE", "sheworks.events"),
		RealtimeAllowedOrigin: getEnv("REALTIME_ALLOWED_ORIGIN", "*"),

		AuthProvider: getEnv("AUTH_PROVIDER", "jwt"),
		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:    getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		JWKSURL:      getEnv("JWKS_URL", ""),

		TranslateAPIKey:          getEnv("TRANSLATE_API_KEY", ""),
		MyMemoryEmail:            getEnv("MYMEMORY_EMAIL", ""),
		TranslationRateLimit:     int(getEnvAsInt64("TRANSLATION_RATE_LIMIT", 10)),
		TranslationRateWindow:    getEnvAsDuration("TRANSLATION_RATE_WINDOW", time.Minute),
		TranslationCacheTTL:      getEnvAsDuration("TRANSLATION_CACHE_TTL", 24*time.Hour),
		TranslationCacheSize:     int(getEnvAsInt64("TRANSLATION_CACHE_SIZE", 10000)),
		TranslationBatchWorkers:  int(getEnvAsInt64("TRANSLATION_BATCH_WORKERS", 4)),
		TranslationBatchInterval: getEnvAsDuration("TRANSLATION_BATCH_INTERVAL", 100*time.Millisecond),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// UsesSharedSecret reports whether tokens are signed with JWTSecret.
func (c *Config) UsesSharedSecret() bool {
	return c.AuthProvider != "firebase" && c.AuthProvider != "jwks"
}

// WeakJWTSecret reports whether JWTSecret is empty or the placeholder.
func (c *Config) WeakJWTSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}

// Validate rejects settings that are only acceptable in development.
func (c *Config) Validate() error {
	if c.UsesSharedSecret() && c.WeakJWTSecret() && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value when ENVIRONMENT=%q", c.Environment)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
