package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"smartBite/internal/shared/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Logging   logging.Config
	Security  SecurityConfig
	Store     StoreConfig
	Kafka     KafkaConfig
	Booking   BookingConfig
	Websocket WebsocketConfig
}

type ServerConfig struct {
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type SecurityConfig struct {
	JWTSecret    string
	JWTPublicKey string
	JWTIssuer    string
}

type StoreConfig struct {
	Driver string
	DSN    string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether events travel through Kafka instead of the in-process bus.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type BookingConfig struct {
	SlotCapacity    int
	EnforceCapacity bool
	BlockedSlots    []string
	WindowDays      int
	Location        *time.Location
	DeletionTTL     time.Duration
}

type WebsocketConfig struct {
	AllowedActions []string
}

// LoadDotEnv overlays variables from the given files, or .env when none are given.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Overload(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var errs []error

	requestTimeout, err := getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	errs = append(errs, err)
	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	errs = append(errs, err)
	capacity, err := getEnvInt("SLOT_CAPACITY", 40)
	errs = append(errs, err)
	windowDays, err := getEnvInt("BOOKING_WINDOW_DAYS", 60)
	errs = append(errs, err)
	enforce, err := getEnvBool("ENFORCE_CAPACITY", true)
	errs = append(errs, err)
	deletionTTL, err := getEnvDuration("DELETE_CONFIRM_TTL", 2*time.Minute)
	errs = append(errs, err)

	tzName := getEnv("RESTAURANT_TIMEZONE", "UTC")
	location, err := time.LoadLocation(tzName)
	if err != nil {
		errs = append(errs, fmt.Errorf("RESTAURANT_TIMEZONE %q: %w", tzName, err))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Logging: logging.Config{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
			AddSource: true,
			Directory: getEnv("LOG_DIR", "./logs"),
		},
		Security: SecurityConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTPublicKey: strings.ReplaceAll(os.Getenv("JWT_PUBLIC_KEY"), `\n`, "\n"),
			JWTIssuer:    os.Getenv("JWT_ISSUER"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
			DSN:    os.Getenv("STORE_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(firstEnv("KAFKA_BROKERS", "KAFKA_BROKER")),
			Topic:   getEnv("KAFKA_TOPIC", "smartbite.reservations"),
			GroupID: getEnv("KAFKA_GROUP_ID", "smartbite-live-feed"),
		},
		Booking: BookingConfig{
			SlotCapacity:    capacity,
			EnforceCapacity: enforce,
			BlockedSlots:    splitList(getEnv("BLOCKED_SLOTS", "2:30 PM")),
			WindowDays:      windowDays,
			Location:        location,
			DeletionTTL:     deletionTTL,
		},
		Websocket: WebsocketConfig{
			AllowedActions: splitList(getEnv("WS_ALLOWED_ACTIONS", "created,updated,deleted")),
		},
	}

	errs = append(errs, cfg.validate())
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT %q is not a number", c.Server.Port))
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres, StoreSQLite:
		if strings.TrimSpace(c.Store.DSN) == "" {
			errs = append(errs, fmt.Errorf("STORE_DSN is required for driver %s", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of memory, postgres, sqlite", c.Store.Driver))
	}
	if strings.TrimSpace(c.Security.JWTSecret) == "" && strings.TrimSpace(c.Security.JWTPublicKey) == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY is required"))
	}
	if c.Booking.SlotCapacity < 0 {
		errs = append(errs, errors.New("SLOT_CAPACITY must not be negative"))
	}
	if c.Booking.WindowDays < 0 {
		errs = append(errs, errors.New("BOOKING_WINDOW_DAYS must not be negative"))
	}
	if c.Kafka.Enabled() && strings.TrimSpace(c.Kafka.Topic) == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when brokers are configured"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s %q is not an integer", key, raw)
	}
	return value, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s %q is not a boolean", key, raw)
	}
	return value, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return defaultValue, fmt.Errorf("%s %q is not a positive duration", key, raw)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
