package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "LOG_DIR",
	"JWT_SECRET", "JWT_PUBLIC_KEY", "JWT_ISSUER", "STORE_DRIVER", "STORE_DSN",
	"KAFKA_BROKERS", "KAFKA_BROKER", "KAFKA_TOPIC", "KAFKA_GROUP_ID",
	"SLOT_CAPACITY", "ENFORCE_CAPACITY", "BLOCKED_SLOTS", "BOOKING_WINDOW_DAYS",
	"RESTAURANT_TIMEZONE", "DELETE_CONFIRM_TTL", "WS_ALLOWED_ACTIONS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Store.Driver != StoreMemory || cfg.Kafka.Enabled() {
		t.Fatalf("expected memory store without kafka, got %+v %+v", cfg.Store, cfg.Kafka)
	}
	if cfg.Booking.SlotCapacity != 40 || cfg.Booking.WindowDays != 60 || !cfg.Booking.EnforceCapacity {
		t.Fatalf("unexpected booking config %+v", cfg.Booking)
	}
	if !reflect.DeepEqual(cfg.Booking.BlockedSlots, []string{"2:30 PM"}) {
		t.Fatalf("unexpected blocked slots %v", cfg.Booking.BlockedSlots)
	}
	if cfg.Booking.Location != time.UTC {
		t.Fatalf("expected UTC, got %v", cfg.Booking.Location)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("STORE_DSN", "file:smartbite.db")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("BLOCKED_SLOTS", "2:30 PM, 9:30 PM ,")
	t.Setenv("SLOT_CAPACITY", "12")
	t.Setenv("ENFORCE_CAPACITY", "false")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Store.Driver != StoreSQLite || cfg.Store.DSN != "file:smartbite.db" {
		t.Fatalf("unexpected config %+v %+v", cfg.Server, cfg.Store)
	}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, []string{"localhost:9092"}) || cfg.Kafka.Topic != "smartbite.reservations" {
		t.Fatalf("unexpected kafka config %+v", cfg.Kafka)
	}
	if !reflect.DeepEqual(cfg.Booking.BlockedSlots, []string{"2:30 PM", "9:30 PM"}) {
		t.Fatalf("unexpected blocked slots %v", cfg.Booking.BlockedSlots)
	}
	if cfg.Booking.SlotCapacity != 12 || cfg.Booking.EnforceCapacity || cfg.Server.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected overrides %+v %+v", cfg.Booking, cfg.Server)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SLOT_CAPACITY", "many")
	t.Setenv("RESTAURANT_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"PORT", "STORE_DSN", "SLOT_CAPACITY", "RESTAURANT_TIMEZONE", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %v", want, err)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SMARTBITE_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SMARTBITE_DOTENV_PROBE", "")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("SMARTBITE_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("expected overlay, got %q", got)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file must be ignored: %v", err)
	}
}
