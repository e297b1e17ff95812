package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for tarmac
type Config struct {
	AppEnv string
	Port   string

	// Postgres
	PGHost     string
	PGPort     string
	PGUser     string
	PGDB       string
	PGPassword string

	// DBDriver selects the GORM dialect: postgres or sqlite
	DBDriver   string
	SQLitePath string

	// FlightStore selects the flight record backend: postgres or mongo
	FlightStore string
	MongoURI    string
	MongoDB     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// EventSink selects where flight events go: log, redis or nats
	EventSink string
	NATSURL   string

	// CacheBackend holds reference display data: memory or redis
	CacheBackend string

	JWTSecret         string
	ReferenceCacheTTL time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
	CORSOrigins       []string
}

// Load reads .env when present, then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     getEnv("PG_USER", "postgres"),
		PGDB:       getEnv("PG_DB", "tarmac"),
		PGPassword: getEnv("PG_PASSWORD", ""),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		SQLitePath: getEnv("SQLITE_PATH", "tarmac.db"),

		FlightStore: getEnv("FLIGHT_STORE", "postgres"),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "tarmac"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		EventSink: getEnv("EVENT_SINK", "log"),
		NATSURL:   getEnv("NATS_URL", "nats://localhost:4222"),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		ReferenceCacheTTL: getEnvAsDuration("REFERENCE_CACHE_TTL", 10*time.Minute),
		RateLimitRPS:      getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 20),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "https://*,http://localhost:3000")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "development-secret"
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.FlightStore {
	case "postgres", "mongo":
	default:
		return fmt.Errorf("unsupported FLIGHT_STORE %q", c.FlightStore)
	}
	switch c.EventSink {
	case "log", "redis", "nats":
	default:
		return fmt.Errorf("unsupported EVENT_SINK %q", c.EventSink)
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PostgresDSN builds the connection string shared by sqlx and GORM
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDB)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("90s") or plain seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
