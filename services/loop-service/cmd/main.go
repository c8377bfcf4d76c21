// Package main is the entry point for the Loop service
// It initializes all components and starts the HTTP server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"loop/pkg/httpclient"
	"loop/pkg/jwt"
	"loop/pkg/kafka"
	"loop/pkg/logger"
	"loop/pkg/postgres"
	"loop/pkg/redis"
	"loop/services/loop-service/config"
	httpDelivery "loop/services/loop-service/delivery/http"
	"loop/services/loop-service/domain/repository"
	"loop/services/loop-service/repository/event"
	"loop/services/loop-service/repository/memory"
	pgRepository "loop/services/loop-service/repository/postgres"
	redisRepository "loop/services/loop-service/repository/redis"
	"loop/services/loop-service/repository/store"
	"loop/services/loop-service/repository/textgen"
	"loop/services/loop-service/usecase"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewJSONDefault().Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := logger.NewWithOptions(
		logger.WithLevelName(cfg.Log.Level),
		logger.WithFormat(cfg.Log.Format),
		logger.WithService(cfg.Application.Name),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence substrate
	checks := map[string]httpDelivery.HealthCheck{}
	var closers []func() error

	var kv repository.KeyValue
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		postgresClient, err := postgres.NewPostgresClient(cfg.Infrastructure.Postgres)
		if err != nil {
			appLogger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := postgresClient.Migrate(&pgRepository.Entry{}); err != nil {
			appLogger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		kv = pgRepository.NewKeyValueRepository(postgresClient.GetDB(), appLogger)
		checks["postgres"] = postgresClient.Ping
		closers = append(closers, postgresClient.Close)
	case config.BackendRedis:
		redisClient, err := redis.NewWithConfig(cfg.Infrastructure.Redis)
		if err != nil {
			appLogger.Error("Failed to initialize Redis client", "error", err)
			os.Exit(1)
		}
		kv = redisRepository.NewKeyValueRepository(redisClient, cfg.Store.Prefix, appLogger)
		checks["redis"] = redisClient.Ping
		closers = append(closers, redisClient.Close)
	default:
		appLogger.Warn("Using the in-memory store; data is lost on restart")
		kv = memory.NewKeyValueRepository()
	}

	recordStore := store.New(kv, appLogger.With("component", "store"))
	if cfg.Store.Seed {
		if err := recordStore.Seed(ctx); err != nil {
			appLogger.Error("Failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// Domain events
	var publisher repository.EventPublisher = event.NoopPublisher{}
	if cfg.Infrastructure.Kafka.Enabled {
		kafkaClient, err := kafka.NewWithConfig(cfg.Infrastructure.Kafka.Config)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka client", "error", err)
			os.Exit(1)
		}
		publisher = event.NewKafkaPublisher(kafkaClient, cfg.Infrastructure.Kafka.Topic, cfg.Application.Name, appLogger.With("component", "events"))
	}

	jwtClient, err := jwt.New(
		jwt.WithAccessTokenSecret(cfg.Security.JWT.AccessTokenSecret),
		jwt.WithRefreshTokenSecret(cfg.Security.JWT.RefreshTokenSecret),
		jwt.WithAccessTokenExpiry(time.Duration(cfg.Security.JWT.AccessTokenExpiry)*time.Minute),
		jwt.WithRefreshTokenExpiry(time.Duration(cfg.Security.JWT.RefreshTokenExpiry)*time.Hour),
	)
	if err != nil {
		appLogger.Error("Failed to initialize JWT client", "error", err)
		os.Exit(1)
	}

	assistantLogger := appLogger.With("component", "assistant")
	generator := textgen.NewGemini(
		httpclient.New(
			httpclient.WithBaseURL(cfg.Assistant.BaseURL),
			httpclient.WithTimeout(time.Duration(cfg.Assistant.Timeout)*time.Second),
			httpclient.WithRetry(cfg.Assistant.Retries, time.Second),
			httpclient.WithLogger(assistantLogger),
		),
		cfg.Assistant.Model,
		cfg.Assistant.APIKey,
		assistantLogger,
	)
	if !generator.Enabled() {
		appLogger.Warn("Assistant API key not set; the assistant is disabled")
	}

	hub := httpDelivery.NewChatHub(jwtClient, func(ctx context.Context, userID int64) (int64, bool) {
		client, ok := recordStore.FindClientByUserID(ctx, userID)
		return client.ID, ok
	}, cfg.Security.CORS.AllowedOrigins, appLogger.With("component", "chat_hub"))
	go hub.Run(ctx)

	// Usecases
	authUsecase := usecase.NewAuthUseCase(recordStore, jwtClient, publisher, appLogger)
	representativeUsecase := usecase.NewRepresentativeUseCase(recordStore, appLogger)
	clientUsecase := usecase.NewClientUseCase(recordStore, generator, appLogger)
	planUsecase := usecase.NewPlanUseCase(recordStore, appLogger)
	saleUsecase := usecase.NewSaleUseCase(recordStore, publisher, appLogger)
	chatUsecase := usecase.NewChatUseCase(recordStore, generator, hub, appLogger)
	contractUsecase := usecase.NewContractUseCase(recordStore, saleUsecase, appLogger)
	assistantUsecase := usecase.NewAssistantUseCase(generator, appLogger)

	router := &httpDelivery.Router{
		AuthHandler:           httpDelivery.NewAuthHandler(authUsecase, appLogger),
		RepresentativeHandler: httpDelivery.NewRepresentativeHandler(representativeUsecase, appLogger),
		ClientHandler:         httpDelivery.NewClientHandler(clientUsecase, appLogger),
		PlanHandler:           httpDelivery.NewPlanHandler(planUsecase, appLogger),
		SaleHandler:           httpDelivery.NewSaleHandler(saleUsecase, appLogger),
		ChatHandler:           httpDelivery.NewChatHandler(chatUsecase, appLogger),
		ContractHandler:       httpDelivery.NewContractHandler(contractUsecase, appLogger),
		AssistantHandler:      httpDelivery.NewAssistantHandler(assistantUsecase, appLogger),
		HealthHandler:         httpDelivery.NewHealthHandler(appLogger, checks),
		ChatHub:               hub,
		JWTClient:             jwtClient,
		AllowedOrigins:        cfg.Security.CORS.AllowedOrigins,
		AppLogger:             appLogger,
	}

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("Service starting", "name", cfg.Application.Name, "version", cfg.Application.Version, "port", cfg.Server.Port, "store", cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}
	if err := publisher.Close(shutdownCtx); err != nil {
		appLogger.Warn("Error flushing events", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			appLogger.Warn("Error closing connection", "error", err)
		}
	}

	appLogger.Info("Server exited")
}
