package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"smartBite/internal/config"
	"smartBite/internal/modules/realtime/application/handler"
	realtimeport "smartBite/internal/modules/realtime/application/port"
	realtimeusecase "smartBite/internal/modules/realtime/application/usecase"
	realtime "smartBite/internal/modules/realtime/infrastructure"
	realtimetransport "smartBite/internal/modules/realtime/interface"
	"smartBite/internal/modules/reservations/application/usecase"
	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/modules/reservations/infrastructure"
	transport "smartBite/internal/modules/reservations/interface"
	"smartBite/internal/platform/broker"
	"smartBite/internal/shared/auth"
	"smartBite/internal/shared/httputil"
	"smartBite/internal/shared/logging"
)

func main() {
	// Load .env so local runs honour configuration tweaks.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logWriter, _, err := logging.Setup(cfg.Logging, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	if err := run(cfg, logWriter); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logWriter io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancelStartup := context.WithTimeout(ctx, 30*time.Second)
	store, storeCloser, err := infrastructure.OpenStore(startupCtx, cfg.Store.Driver, cfg.Store.DSN)
	cancelStartup()
	if err != nil {
		return fmt.Errorf("open reservation store: %w", err)
	}
	defer storeCloser.Close()
	slog.Info("reservation store opened", slog.String("driver", cfg.Store.Driver))

	validator, err := auth.NewJWTValidatorWithPublicKey(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey, cfg.Security.JWTIssuer)
	if err != nil {
		return fmt.Errorf("configure jwt validator: %w", err)
	}

	// Live feed: reservation events -> publisher -> registry -> hub
	hub := realtime.NewHub()
	defer hub.Close()
	registry := realtime.NewHandlerRegistry()
	broadcastUC := realtimeusecase.NewBroadcastUseCase(hub)
	registry.Register(handler.NewReservationStreamHandler(cfg.Websocket.AllowedActions, broadcastUC))

	var sink realtimeport.Publisher = realtime.NewLocalPublisher(registry)
	if cfg.Kafka.Enabled() {
		producer := broker.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		sink = producer
		consumers := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.Topic})
		defer consumers.Wait()
		slog.Info("kafka live feed enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.Topic), slog.String("group", cfg.Kafka.GroupID))
	} else {
		slog.Info("kafka brokers not configured, using in-process live feed")
	}

	service := usecase.NewReservationService(store, usecase.ServiceOptions{
		SlotCapacity:    cfg.Booking.SlotCapacity,
		EnforceCapacity: cfg.Booking.EnforceCapacity,
		Location:        cfg.Booking.Location,
		Events:          infrastructure.NewRealtimeEventPublisher(sink),
	})
	availability := usecase.NewAvailabilityCalculator(store, domain.SlotPolicy{
		Capacity:   cfg.Booking.SlotCapacity,
		Blocked:    cfg.Booking.BlockedSlots,
		WindowDays: cfg.Booking.WindowDays,
		Location:   cfg.Booking.Location,
	}, time.Now)
	admin := usecase.NewAdminManager(service, store).WithDeletionTTL(cfg.Booking.DeletionTTL)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(logWriter)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httputil.RequestLogger(slog.Default()))

	e.GET("/healthz", transport.Healthz)
	e.GET("/ws/admin/reservations", realtimetransport.NewAdminReservationsWebsocketHandler(hub, validator, cfg.Websocket.AllowedActions))
	transport.RegisterRoutes(e,
		transport.NewReservationHandler(service, availability),
		transport.NewAdminHandler(admin),
		middleware.ContextTimeout(cfg.Server.RequestTimeout),
		httputil.IdentityMiddleware(validator),
	)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}
	// cancelling ctx also stops the kafka consumers awaited by the deferred Wait
	stop()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}
