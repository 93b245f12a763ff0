package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whatsapp-order-bot/internal/broadcast"
	"whatsapp-order-bot/internal/catalog"
	"whatsapp-order-bot/internal/config"
	"whatsapp-order-bot/internal/database"
	"whatsapp-order-bot/internal/events"
	"whatsapp-order-bot/internal/extractor"
	"whatsapp-order-bot/internal/handler"
	"whatsapp-order-bot/internal/model"
	"whatsapp-order-bot/internal/repository"
	"whatsapp-order-bot/internal/router"
	"whatsapp-order-bot/internal/service"
	"whatsapp-order-bot/internal/transcriber"
	"whatsapp-order-bot/internal/twilio"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting whatsapp order bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restaurant, err := loadMenu(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	orderRepo, closeStore, err := newOrderStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize order store: %w", err)
	}
	defer closeStore()

	hub := broadcast.NewHub(cfg.Stream.BufferSize, logger)

	matchMode, err := extractor.ParseMatchMode(cfg.Extract.MatchMode)
	if err != nil {
		return err
	}

	if cfg.Transcribe.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY not set, voice messages will be answered with an apology")
	}
	if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
		logger.Warn().Msg("twilio credentials not set, voice media cannot be downloaded")
	}

	stt := transcriber.NewOpenAISpeechToText(cfg.Transcribe.APIKey, cfg.Transcribe.BaseURL, cfg.Transcribe.Model, logger)
	voice := transcriber.New(stt, transcriber.Config{
		MediaUsername: cfg.Twilio.AccountSID,
		MediaPassword: cfg.Twilio.AuthToken,
		Timeout:       cfg.Transcribe.Timeout,
	}, &http.Client{Timeout: cfg.Transcribe.Timeout}, logger)

	var eventPublisher service.EventPublisher
	if cfg.Events.Enabled() {
		publisher, err := events.Dial(cfg.Events.URL, cfg.Events.Exchange, logger)
		if err != nil {
			// Order events are optional; the bot keeps serving without them.
			logger.Warn().Err(err).Msg("failed to connect to RabbitMQ, order events disabled")
		} else {
			defer publisher.Close()
			eventPublisher = publisher
		}
	}

	var authenticator twilio.RequestAuthenticator = twilio.AllowAll{}
	if cfg.Twilio.ValidateSignature {
		authenticator = twilio.NewSignatureAuthenticator(cfg.Twilio.AuthToken, cfg.Twilio.WebhookURL, logger)
		logger.Info().Msg("twilio signature validation enabled")
	} else {
		logger.Warn().Msg("twilio signature validation disabled, all webhook requests are trusted")
	}

	// Initialize services
	orderService := service.NewOrderService(orderRepo, restaurant, extractor.New(matchMode), voice, hub, eventPublisher, logger)
	menuService := service.NewMenuService(restaurant, logger)

	// Initialize HTTP handlers
	streamHandler := handler.NewStreamHandler(hub, cfg.Stream.Heartbeat, logger)
	mux := router.New(router.Handlers{
		Webhook:    handler.NewWebhookHandler(orderService, authenticator, logger),
		Restaurant: handler.NewRestaurantHandler(menuService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Stream:     streamHandler,
	}, cfg.Auth.APIKey, logger)

	// Streams clear their own write deadline.
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	server.RegisterOnShutdown(streamHandler.Shutdown)

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("restaurant", restaurant.Name).
			Int("menu_items", len(restaurant.Menu)).
			Str("store", cfg.Store.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadMenu reads MENU_FILE (S3 first when enabled) or returns the demo menu.
func loadMenu(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*model.Restaurant, error) {
	if cfg.Menu.File == "" {
		logger.Info().Msg("MENU_FILE not set, using built-in demo menu")
		return catalog.Default(), nil
	}

	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for menu file (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	return loader.Load(ctx, cfg.Menu.File)
}

// newOrderStore returns the configured order repository and its cleanup func.
func newOrderStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.OrderRepository, func(), error) {
	if cfg.Store.Backend != config.StorePostgres {
		return repository.NewMemoryRepository(logger), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return repository.NewOrderRepository(pool, logger), pool.Close, nil
}
