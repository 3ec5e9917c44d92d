package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_availability"
	getBusinessReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_business_reservations"
	getCustomerReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getScheduleConfigHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_schedule_config"
	putScheduleConfigHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/put_schedule_config"
	updateReservationStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/migrations"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	scheduleConfigRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/scheduleconfig"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	notifierClient "github.com/m04kA/SMC-ReservationService/internal/integrations/notifier"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	scheduleConfigService "github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
	appmigrations "github.com/m04kA/SMC-ReservationService/migrations"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// notifier общий контракт уведомлений для use case и сервиса
type notifier interface {
	ReservationCreated(ctx context.Context, res *domain.Reservation) error
	ReservationStatusChanged(ctx context.Context, res *domain.Reservation, previous domain.ReservationStatus) error
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Engine.Location()
	if err != nil {
		log.Fatal("Failed to load engine timezone: %v", err)
	}
	log.Info("Engine timezone: %s", location)

	// Метрики (nil, если выключены: все потребители это допускают)
	var metricsCollector *metrics.Metrics
	stopBackgroundCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		runner, err := migrations.NewRunner(db, appmigrations.FS, log)
		if err != nil {
			log.Fatal("Failed to init migrations: %v", err)
		}
		if err := runner.Up(); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopBackgroundCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Интеграции
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	if cfg.Redis.Enabled && cfg.Catalog.CacheTTL > 0 {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable, catalog cache disabled: %v", err)
		} else {
			catalog.UseRedisCache(redisClient, time.Duration(cfg.Catalog.CacheTTL)*time.Second)
			log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Catalog.CacheTTL)
		}
		cancel()
	}

	var notify notifier = notifierClient.Noop{}
	if cfg.Notifier.Enabled {
		notify = notifierClient.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
	}
	log.Info("Integration clients initialized (Catalog=%s timeout=%ds, Notifier enabled=%t)",
		cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.Notifier.Enabled)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	scheduleConfigRepository := scheduleConfigRepo.NewRepository(wrappedDB)

	// Сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, catalog, notify, log)
	scheduleConfigSvc := scheduleConfigService.NewService(scheduleConfigRepository, catalog, txMgr, log)

	// Use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		scheduleConfigRepository,
		catalog,
		notify,
		txMgr,
		metricsCollector,
		location,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		reservationRepository,
		scheduleConfigRepository,
		catalog,
		metricsCollector,
		location,
		log,
	)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getCustomerReservations := getCustomerReservationsHandler.NewHandler(reservationSvc, log)
	getBusinessReservations := getBusinessReservationsHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(scheduleConfigSvc, log)
	putScheduleConfig := putScheduleConfigHandler.NewHandler(scheduleConfigSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/businesses/{businessId}/staff/{staffId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/schedule-config",
		getScheduleConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	var createHandler http.Handler = http.HandlerFunc(createReservation.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.Run(stopBackgroundCh)
		createHandler = limiter.Middleware(createHandler)
		log.Info("Rate limit on reservation creation: rps=%.2f burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	protected.Handle("/businesses/{businessId}/reservations", createHandler).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{userId}/reservations", getCustomerReservations.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/reservations", getBusinessReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/businesses/{businessId}/schedule-config", putScheduleConfig.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор статистики пула и очистку лимитера
	close(stopBackgroundCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
