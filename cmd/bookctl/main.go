package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartBite/internal/config"
	"smartBite/internal/modules/booking/application"
	"smartBite/internal/modules/booking/domain"
	"smartBite/internal/modules/booking/infrastructure"
	transport "smartBite/internal/modules/booking/interface"
	"smartBite/internal/modules/reservations/application/usecase"
	reservations "smartBite/internal/modules/reservations/domain"
	storage "smartBite/internal/modules/reservations/infrastructure"
	"smartBite/internal/shared/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}

	apiURL := flag.String("api", envOr("SMARTBITE_API_URL", infrastructure.DefaultBaseURL), "reservation API base URL")
	token := flag.String("token", os.Getenv("SMARTBITE_TOKEN"), "bearer token, optional")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP request timeout")
	windowDays := flag.Int("window", 60, "how many days ahead bookings are accepted")
	tz := flag.String("tz", envOr("RESTAURANT_TIMEZONE", "UTC"), "restaurant time zone")
	logLevel := flag.String("log-level", "warn", "log level")
	storeDriver := flag.String("store", os.Getenv("BOOKCTL_STORE"), "book in-process against this store driver (memory, postgres, sqlite) instead of the API")
	dsn := flag.String("dsn", os.Getenv("STORE_DSN"), "store DSN for -store postgres or sqlite")
	capacity := flag.Int("capacity", 40, "covers per slot for -store")
	flag.Parse()

	slog.SetDefault(logging.New(os.Stderr, logging.Config{Level: *logLevel, Format: "text"}))

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid time zone %q: %v\n", *tz, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules := domain.Rules{Location: loc, WindowDays: *windowDays}

	var (
		slots     transport.SlotSource
		submitter domain.Submitter
	)
	if *storeDriver == "" {
		client := infrastructure.NewReservationHTTPClient(*apiURL, *timeout, nil).WithToken(*token)
		slots, submitter = client, client
	} else {
		store, closer, err := storage.OpenStore(ctx, *storeDriver, *dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open reservation store: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()
		service := usecase.NewReservationService(store, usecase.ServiceOptions{
			SlotCapacity:    *capacity,
			EnforceCapacity: *capacity > 0,
			Location:        loc,
		})
		calculator := usecase.NewAvailabilityCalculator(store, reservations.SlotPolicy{
			Capacity:   *capacity,
			WindowDays: *windowDays,
			Location:   loc,
		}, time.Now)
		slots = application.ServiceSlots{Reader: calculator}
		submitter = application.ServiceSubmitter{Creator: service}
		slog.Debug("booking in-process", slog.String("store", *storeDriver))
	}

	wizard := transport.NewWizard(os.Stdin, os.Stdout, slots, submitter)
	if _, err := wizard.Run(ctx, rules); err != nil {
		if errors.Is(err, transport.ErrAborted) {
			fmt.Println("\nNo reservation was made.")
			return
		}
		fmt.Fprintf(os.Stderr, "booking failed: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
