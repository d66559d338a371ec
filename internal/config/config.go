package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration for the application. It is
// loaded once at startup and passed by value afterwards.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Logging  LoggingConfig
	Events   EventsConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// StoreConfig identifies the application to the food item store.
type StoreConfig struct {
	ApplicationID string
	AccessKey     string
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string
	Format string
}

// EventsConfig points the amount-change publisher at a Kafka cluster.
// An empty broker list disables publishing.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

const defaultEventsTopic = "pantry.food.amount_changed"

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
		AllowedOrigins: splitCSV(firstNonEmpty(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	storeURL := firstNonEmpty(
		os.Getenv("PANTRY_STORE_URL"),
		os.Getenv("DATABASE_URL"),
		os.Getenv("DB_URL"),
	)

	cfg.Database = DatabaseConfig{
		URL:             storeURL,
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), strings.TrimSpace(storeURL) == ""),
	}

	cfg.Store = StoreConfig{
		ApplicationID: strings.TrimSpace(firstNonEmpty(os.Getenv("PANTRY_APPLICATION_ID"), "pantry")),
		AccessKey:     strings.TrimSpace(os.Getenv("PANTRY_ACCESS_KEY")),
	}

	cfg.Logging = LoggingConfig{
		Level:  strings.ToLower(strings.TrimSpace(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"))),
		Format: strings.ToLower(strings.TrimSpace(firstNonEmpty(os.Getenv("LOG_FORMAT"), "text"))),
	}

	cfg.Events = EventsConfig{
		Brokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		Topic:   firstNonEmpty(os.Getenv("KAFKA_TOPIC"), defaultEventsTopic),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Store.ApplicationID == "" {
		return fmt.Errorf("application id must not be empty")
	}
	if !c.Database.UseMock && strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("store url is required when the mock database is disabled")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Logging.Format)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
