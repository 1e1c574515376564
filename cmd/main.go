package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "modernc.org/sqlite"

	cancelBookingHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/get_booking"
	getSpaceHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/get_space"
	getSpaceBookingsHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/get_space_bookings"
	listSpacesHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/list_spaces"
	updateBookingStatusHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/update_booking_status"
	validateIntervalHandler "github.com/m04kA/SMC-VenueService/internal/api/handlers/validate_interval"
	"github.com/m04kA/SMC-VenueService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueService/internal/config"
	"github.com/m04kA/SMC-VenueService/internal/domain"
	spaceCache "github.com/m04kA/SMC-VenueService/internal/infra/cache/space"
	bookingRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueService/internal/infra/storage/schema"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	bookingsService "github.com/m04kA/SMC-VenueService/internal/service/bookings"
	spacesService "github.com/m04kA/SMC-VenueService/internal/service/spaces"
	createBookingUC "github.com/m04kA/SMC-VenueService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-VenueService/internal/usecase/get_available_slots"
	validateIntervalUC "github.com/m04kA/SMC-VenueService/internal/usecase/validate_interval"
	"github.com/m04kA/SMC-VenueService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueService/pkg/logger"
	"github.com/m04kA/SMC-VenueService/pkg/metrics"
	"github.com/m04kA/SMC-VenueService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueService/pkg/retry"
	"github.com/m04kA/SMC-VenueService/pkg/tracing"
	"github.com/m04kA/SMC-VenueService/pkg/txmanager"
)

const poolStatsInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", envOr("VENUE_CONFIG", "config.toml"), "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-VenueService...")
	log.Info("Configuration loaded from %s", *configPath)

	loc, err := cfg.Availability.Location()
	if err != nil {
		log.Fatal("Invalid availability timezone: %v", err)
	}

	dialect, err := psqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal("Unsupported database driver: %v", err)
	}

	// Трейсинг
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	sqlDB, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}

	// Настраиваем connection pool
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	db := dbmetrics.Wrap(sqlDB, metricsCollector, cfg.Database.MaxIdleConns)
	defer db.Close()

	// Проверяем соединение
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	if cfg.Metrics.Enabled {
		go db.CollectPoolStats(poolStatsInterval, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	if cfg.Database.AutoCreateSchema {
		if err := schema.Apply(context.Background(), db, dialect); err != nil {
			log.Fatal("Failed to apply schema: %v", err)
		}
		log.Info("Database schema applied (dialect=%s)", dialect)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db, dialect, loc)
	spaceStore := spaceRepo.NewRepository(db, dialect, loc)

	if len(cfg.SeedSpaces) > 0 {
		seeded, err := spaceStore.SeedIfEmpty(context.Background(), seedSpaces(cfg.SeedSpaces))
		if err != nil {
			log.Fatal("Failed to seed spaces: %v", err)
		}
		if seeded > 0 {
			log.Info("Seeded %d spaces", seeded)
		}
	}

	var spaceRepository spacesService.SpaceRepository = spaceStore

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		spaceRepository = spaceCache.NewRepository(spaceStore, redisClient, cfg.Redis.TTL(), loc, log)
		log.Info("Space cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	// SQLite не поддерживает уровни изоляции в BeginTx
	var txOpts []txmanager.Option
	if !dialect.SupportsIsolationLevels() {
		txOpts = append(txOpts, txmanager.WithoutIsolationLevels())
	}
	txManager := txmanager.NewTransactionManager(db, txOpts...)

	// Повторы обращений к хранилищу
	retryPolicy := retry.DefaultPolicy()
	retryPolicy.MaxAttempts = cfg.Retry.MaxAttempts
	retryPolicy.InitialBackoff = cfg.Retry.InitialBackoff()
	retryPolicy.MaxBackoff = cfg.Retry.MaxBackoff()
	retryPolicy.OnRetry = func(operation string, attempt int, err error) {
		log.Warn("Store operation %s failed (attempt %d), retrying: %v", operation, attempt, err)
		metricsCollector.IncStoreRetry(operation)
		db.ResetIdleConns()
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		spaceRepository,
		txManager,
		log,
	)
	spaceSvc := spacesService.NewService(
		spaceRepository,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		spaceRepository,
		txManager,
		retryPolicy,
		metricsCollector,
		log,
	)

	validateIntervalUseCase := validateIntervalUC.NewUseCase(
		bookingRepository,
		spaceRepository,
		retryPolicy,
		cfg.Availability.PointCheckProjection,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		spaceRepository,
		txManager,
		retryPolicy,
		cfg.Availability.MaxSeriesDays,
		log,
	)

	// Инициализируем handlers
	listSpaces := listSpacesHandler.NewHandler(spaceSvc, log)
	getSpace := getSpaceHandler.NewHandler(spaceSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log)
	validateInterval := validateIntervalHandler.NewHandler(validateIntervalUseCase, loc, log)
	getSpaceBookings := getSpaceBookingsHandler.NewHandler(bookingSvc, loc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, loc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimitOptions{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			MaxClients:        cfg.RateLimit.MaxClients,
			IdleTTL:           cfg.RateLimit.IdleTTL(),
		}, log)
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d, max_clients=%d)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Площадки ---
	api.HandleFunc("/spaces", listSpaces.Handle).Methods(http.MethodGet)
	api.HandleFunc("/spaces/{spaceId}", getSpace.Handle).Methods(http.MethodGet)

	// Сетка доступных слотов на дату
	api.HandleFunc("/spaces/{spaceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Точечная проверка интервала
	api.HandleFunc("/spaces/{spaceId}/validate-interval", validateInterval.Handle).Methods(http.MethodPost)

	// Бронирования площадки
	api.HandleFunc("/spaces/{spaceId}/bookings", getSpaceBookings.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Смена статуса (вызывается процессом согласования)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	var handler http.Handler = r
	if cfg.CORS.Enabled {
		handler = cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.UserIDHeader, middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
			MaxAge:         cfg.CORS.MaxAgeSeconds,
		})(handler)
		log.Info("CORS enabled for origins %v", cfg.CORS.AllowedOrigins)
	}
	handler = otelhttp.NewHandler(handler, cfg.Metrics.ServiceName)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s (timezone=%s)", addr, loc)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func seedSpaces(seeds []config.SpaceSeedConfig) []*domain.Space {
	spaces := make([]*domain.Space, 0, len(seeds))
	for _, seed := range seeds {
		spaces = append(spaces, &domain.Space{
			Name:     seed.Name,
			Location: seed.Location,
			Capacity: seed.Capacity,
			IsActive: true,
		})
	}
	return spaces
}
