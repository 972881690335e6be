package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"restauReserva/internal/config"
	"restauReserva/internal/modules/appstate/application/handler"
	"restauReserva/internal/modules/appstate/application/usecase"
	"restauReserva/internal/modules/appstate/infrastructure"
	transport "restauReserva/internal/modules/appstate/interface"
	reservationinfra "restauReserva/internal/modules/reservations/infrastructure"
	restaurantinfra "restauReserva/internal/modules/restaurants/infrastructure"
	"restauReserva/internal/platform/apiclient"
	"restauReserva/internal/platform/broker"
	"restauReserva/internal/platform/metrics"
	"restauReserva/internal/platform/tokenstore"
	"restauReserva/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	}, os.Stdout, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, closeTokens, err := tokenstore.New(ctx, cfg.TokenStore())
	if err != nil {
		slog.Error("token store setup failed", slog.String("kind", cfg.Session.Store), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeTokens()
	slog.Info("token store ready", slog.String("kind", cfg.Session.Store))

	api := apiclient.New(cfg.APIClient(), tokens, nil)
	slog.Info("api client configured", slog.String("baseUrl", api.BaseURL()), slog.Duration("timeout", cfg.API.Timeout))

	hub := infrastructure.NewHub()
	opts := []usecase.Option{usecase.WithNotifier(hub)}
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		hub.ObserveClientCount(recorder.SetWebsocketClients)
		opts = append(opts, usecase.WithRecorder(recorder))
	}

	store := usecase.NewStore(
		restaurantinfra.NewRestaurantHTTPClient(api),
		reservationinfra.NewReservationHTTPClient(api),
		opts...,
	)
	if err := store.Initialize(ctx); err != nil {
		slog.Warn("initial restaurant load failed", slog.Any("error", err))
	}

	registry := infrastructure.NewHandlerRegistry()
	for entity, topics := range cfg.Kafka.Topics {
		for _, topic := range topics {
			registry.Register(handler.NewRefreshHandler(entity, topic, cfg.Kafka.AllowedActions, store))
		}
	}
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Any("topics", registry.Topics()))
	waitConsumers := broker.StartKafkaConsumers(ctx, registry, broker.ConsumerSettings{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topics:  registry.Topics(),
	})

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())

	transport.NewHandler(store, tokens, api.TokenKey(), hub).Register(e)
	if recorder != nil {
		e.GET("/metrics", echo.WrapHandler(recorder.Handler()))
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", slog.Any("error", err))
	}
	waitConsumers()
}
