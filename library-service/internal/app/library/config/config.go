package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Stats   StatsConfig
}

type ServerConfig struct {
	Host string
	Port string // PORT, 5000 by default
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration // per-operation timeout applied by the client
}

// RedisConfig describes the optional book list cache. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig describes the optional event stream. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type StatsConfig struct {
	Schedule string // cron spec, e.g. "@every 1m"
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	mongoTimeout, err := getEnvDuration("MONGODB_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvDuration("BOOKS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", "5000"),
		},
		MongoDB: MongoDBConfig{
			URI:      mongoURI(),
			Database: getEnv("MONGODB_DATABASE", "nowhere-library"),
			Timeout:  mongoTimeout,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "library_events"),
		},
		Stats: StatsConfig{
			Schedule: getEnv("STATS_SCHEDULE", "@every 1m"),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// mongoURI prefers MONGODB_URI and otherwise builds an Atlas SRV URI
// from DB_USER, DB_PASS and DB_CLUSTER.
func mongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}

	cluster := getEnv("DB_CLUSTER", "mongodb-learning.p3lab.mongodb.net")
	user := url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASS"))

	return fmt.Sprintf("mongodb+srv://%s@%s/?retryWrites=true&w=majority", user.String(), cluster)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
