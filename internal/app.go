package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logger_adapter "listings-service/internal/adapters/logger"
	postgres_adapter "listings-service/internal/adapters/postgres"
	"listings-service/internal/adapters/rabbitmq"
	"listings-service/internal/adapters/rediscache"
	"listings-service/internal/adapters/rest"
	"listings-service/internal/configs"
	"listings-service/internal/constants"
	"listings-service/internal/core/port"
	"listings-service/internal/core/usecase"
	fluentlogger "listings-service/pkg/fluent_logger"
	"listings-service/pkg/postgres"
	"listings-service/pkg/rabbitmq/rabbitmq_producer"
	"listings-service/pkg/redisclient"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	cache     port.CachePort
	producer  *rabbitmq_producer.Publisher
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ИНИЦИАЛИЗАЦИЯ НИЗКОУРОВНЕВЫХ ЗАВИСИМОСТЕЙ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Postgres.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	redisClient, err := redisclient.NewClient(context.Background(), redisclient.Config{RedisURL: appConfig.Redis.URL})
	if err != nil {
		appLogger.Error("Failed to connect to Redis", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	appLogger.Info("Successfully connected to Redis!", nil)

	cacheAdapter, err := rediscache.NewRedisCacheAdapter(redisClient)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create redis cache adapter: %w", err)
	}

	// RabbitMQ опционален: без брокера события просто не публикуются
	var listingEvents port.ListingEventsPort = rabbitmq.NewNoopListingEvents()
	var producer *rabbitmq_producer.Publisher
	if appConfig.RabbitMQ.Enabled {
		producer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			URL:                      appConfig.RabbitMQ.URL,
			ExchangeName:             constants.ListingEventsExchange,
			ExchangeType:             constants.ListingEventsExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
		})
		if err != nil {
			appLogger.Error("Failed to connect to RabbitMQ", err, nil)
			cacheAdapter.Close()
			dbPool.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}

		eventsAdapter, err := rabbitmq.NewListingEventsAdapter(producer)
		if err != nil {
			producer.Close()
			cacheAdapter.Close()
			dbPool.Close()
			return nil, fmt.Errorf("failed to create listing events adapter: %w", err)
		}
		listingEvents = eventsAdapter
		appLogger.Info("Successfully connected to RabbitMQ!", nil)
	}

	// --- 4. АДАПТЕРЫ ХРАНИЛИЩА ---
	listingStorage, err := postgres_adapter.NewPostgresListingStorage(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres listing storage: %w", err)
	}
	sequenceAllocator, err := postgres_adapter.NewPostgresSequenceAllocator(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres sequence allocator: %w", err)
	}
	favoritesRepository, err := postgres_adapter.NewPostgresFavoritesRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres favorites repository: %w", err)
	}
	userRepository, err := postgres_adapter.NewPostgresUserRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres user repository: %w", err)
	}
	recommendationStorage, err := postgres_adapter.NewPostgresRecommendationStorage(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres recommendation storage: %w", err)
	}
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 5. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	cacheTTL := appConfig.Cache.TTL

	findListingsUseCase := usecase.NewFindListingsUseCase(listingStorage, cacheAdapter, cacheTTL)
	getListingUseCase := usecase.NewGetListingUseCase(listingStorage, cacheAdapter, cacheTTL)
	createListingUseCase := usecase.NewCreateListingUseCase(listingStorage, sequenceAllocator, cacheAdapter, listingEvents)
	updateListingUseCase := usecase.NewUpdateListingUseCase(listingStorage, cacheAdapter, listingEvents)
	deleteListingUseCase := usecase.NewDeleteListingUseCase(listingStorage, cacheAdapter, listingEvents)

	addToFavoritesUseCase := usecase.NewAddToFavoritesUseCase(listingStorage, favoritesRepository, cacheAdapter)
	removeFromFavoritesUseCase := usecase.NewRemoveFromFavoritesUseCase(listingStorage, favoritesRepository, cacheAdapter)
	getUserFavoritesUseCase := usecase.NewGetUserFavoritesUseCase(favoritesRepository, cacheAdapter, cacheTTL)

	sendRecommendationUseCase := usecase.NewSendRecommendationUseCase(listingStorage, userRepository, recommendationStorage, cacheAdapter)
	getReceivedRecommendationsUseCase := usecase.NewGetReceivedRecommendationsUseCase(recommendationStorage, cacheAdapter, cacheTTL)

	// --- 6. REST API SERVER ---
	listingsHandler := rest.NewListingsHandler(
		findListingsUseCase,
		getListingUseCase,
		createListingUseCase,
		updateListingUseCase,
		deleteListingUseCase,
	)
	favoritesHandler := rest.NewFavoritesHandler(
		addToFavoritesUseCase,
		removeFromFavoritesUseCase,
		getUserFavoritesUseCase,
	)
	recommendationsHandler := rest.NewRecommendationsHandler(
		sendRecommendationUseCase,
		getReceivedRecommendationsUseCase,
	)

	apiServer := rest.NewServer(
		appConfig.Rest.PORT,
		appConfig.Rest.AllowedOrigins,
		listingsHandler,
		favoritesHandler,
		recommendationsHandler,
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)

	// --- 7. СОБИРАЕМ ПРИЛОЖЕНИЕ ---
	application := &App{
		config:    appConfig,
		dbPool:    dbPool,
		cache:     cacheAdapter,
		producer:  producer,
		apiServer: apiServer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ producer", err, nil)
			}
		}

		if a.cache != nil {
			if err := a.cache.Close(); err != nil {
				a.logger.Error("Error closing cache", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
