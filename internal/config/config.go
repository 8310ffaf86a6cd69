package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort             string
	MongoURI             string
	MongoDBName          string
	MongoConnectTimeout  time.Duration
	MongoSelectTimeout   time.Duration
	MongoMaxPoolSize     uint64
	MongoMinPoolSize     uint64
	RedisAddr            string
	RedisPassword        string
	KafkaBrokers         []string
	JWTSecret            string
	TokenTTL             time.Duration
	S3Bucket             string
	S3Prefix             string
	RequestTimeout       time.Duration
	ShutdownTimeout      time.Duration
}

// Load reads configuration from the environment, with a .env file as a
// development convenience. Secrets only ever come from here.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	return &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:         getEnv("MONGO_DB_NAME", "shopdb"),
		MongoConnectTimeout: getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		MongoSelectTimeout:  getDuration("MONGO_SELECT_TIMEOUT", 5*time.Second),
		MongoMaxPoolSize:    getUint("MONGO_MAX_POOL_SIZE", 100),
		MongoMinPoolSize:    getUint("MONGO_MIN_POOL_SIZE", 10),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            getDuration("TOKEN_TTL", 2*time.Hour),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Prefix:            getEnv("S3_PREFIX", "profiles"),
		RequestTimeout:      getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:     getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return n
		}
		log.Printf("invalid number in %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid duration in %s, using default %v", key, defaultValue)
	}
	return defaultValue
}
