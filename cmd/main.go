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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveChangeRequestHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/approve_change_request"
	cancelChangeRequestHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/cancel_change_request"
	commitScheduleHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/commit_schedule"
	createChangeRequestHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/create_change_request"
	getAvailableSlotsHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/get_available_slots"
	getClientSessionsHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/get_client_sessions"
	getSessionHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/get_session"
	getSessionChangeRequestsHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/get_session_change_requests"
	getTrainerSessionsHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/get_trainer_sessions"
	planPrescheduleHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/plan_preschedule"
	rejectChangeRequestHandler "github.com/m04kA/PT-SchedulingService/internal/api/handlers/reject_change_request"
	"github.com/m04kA/PT-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PT-SchedulingService/internal/config"
	applicationRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/application"
	offPeriodRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/offperiod"
	requestRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/request"
	sessionRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/session"
	workHoursRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/workhours"
	memberServiceClient "github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
	requestsService "github.com/m04kA/PT-SchedulingService/internal/service/requests"
	sessionsService "github.com/m04kA/PT-SchedulingService/internal/service/sessions"
	commitScheduleUC "github.com/m04kA/PT-SchedulingService/internal/usecase/commit_schedule"
	planPrescheduleUC "github.com/m04kA/PT-SchedulingService/internal/usecase/plan_preschedule"
	resolveAvailabilityUC "github.com/m04kA/PT-SchedulingService/internal/usecase/resolve_availability"
	"github.com/m04kA/PT-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PT-SchedulingService/pkg/logger"
	"github.com/m04kA/PT-SchedulingService/pkg/metrics"
	"github.com/m04kA/PT-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/PT-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting PT-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент MemberService
	memberClient := memberServiceClient.NewClient(
		cfg.MemberService.URL,
		time.Duration(cfg.MemberService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (MemberService=%s timeout=%ds)",
		cfg.MemberService.URL, cfg.MemberService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		sessionRepository     *sessionRepo.Repository
		workHoursRepository   *workHoursRepo.Repository
		offPeriodRepository   *offPeriodRepo.Repository
		requestRepository     *requestRepo.Repository
		applicationRepository *applicationRepo.Repository
	)

	// Интерфейс transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		workHoursRepository = workHoursRepo.NewRepository(wrappedDB)
		offPeriodRepository = offPeriodRepo.NewRepository(wrappedDB)
		requestRepository = requestRepo.NewRepository(wrappedDB)
		applicationRepository = applicationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sessionRepository = sessionRepo.NewRepository(db)
		workHoursRepository = workHoursRepo.NewRepository(db)
		offPeriodRepository = offPeriodRepo.NewRepository(db)
		requestRepository = requestRepo.NewRepository(db)
		applicationRepository = applicationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	sessionSvc := sessionsService.NewService(
		sessionRepository,
		log,
	)
	requestSvc := requestsService.NewService(
		requestRepository,
		sessionRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	resolveAvailabilityUseCase := resolveAvailabilityUC.NewUseCase(
		sessionRepository,
		workHoursRepository,
		offPeriodRepository,
		memberClient,
		log,
	)

	planPrescheduleUseCase := planPrescheduleUC.NewUseCase(
		sessionRepository,
		workHoursRepository,
		offPeriodRepository,
		applicationRepository,
		memberClient,
		log,
	)

	commitScheduleUseCase := commitScheduleUC.NewUseCase(
		sessionRepository,
		applicationRepository,
		memberClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(resolveAvailabilityUseCase, log)
	planPreschedule := planPrescheduleHandler.NewHandler(planPrescheduleUseCase, log)
	commitSchedule := commitScheduleHandler.NewHandler(commitScheduleUseCase, log)
	getSession := getSessionHandler.NewHandler(sessionSvc, log)
	getTrainerSessions := getTrainerSessionsHandler.NewHandler(sessionSvc, log)
	getClientSessions := getClientSessionsHandler.NewHandler(sessionSvc, log)
	createChangeRequest := createChangeRequestHandler.NewHandler(requestSvc, log)
	approveChangeRequest := approveChangeRequestHandler.NewHandler(requestSvc, log)
	rejectChangeRequest := rejectChangeRequestHandler.NewHandler(requestSvc, log)
	cancelChangeRequest := cancelChangeRequestHandler.NewHandler(requestSvc, log)
	getSessionChangeRequests := getSessionChangeRequestsHandler.NewHandler(requestSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты тренера на дату
	api.HandleFunc("/trainers/{trainerId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Планирование пререгистрации ---
	// Пробное планирование (dry-run, ничего не пишет)
	protected.HandleFunc("/preschedule/plan", planPreschedule.Handle).Methods(http.MethodPost)

	// Фиксация плана: создание сессий и подтверждение заявки
	protected.HandleFunc("/preschedule/commit", commitSchedule.Handle).Methods(http.MethodPost)

	// --- Сессии ---
	// Получение сессии по ID
	protected.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)

	// Расписание тренера за период
	protected.HandleFunc("/trainers/{trainerId}/sessions", getTrainerSessions.Handle).Methods(http.MethodGet)

	// Расписание клиента за период
	protected.HandleFunc("/clients/{clientId}/sessions", getClientSessions.Handle).Methods(http.MethodGet)

	// --- Запросы на перенос ---
	// Создание запроса на перенос сессии
	protected.HandleFunc("/sessions/{sessionId}/change-requests", createChangeRequest.Handle).Methods(http.MethodPost)

	// Список запросов по сессии
	protected.HandleFunc("/sessions/{sessionId}/change-requests", getSessionChangeRequests.Handle).Methods(http.MethodGet)

	// Подтверждение запроса контрагентом
	protected.HandleFunc("/change-requests/{requestId}/approve", approveChangeRequest.Handle).Methods(http.MethodPost)

	// Отклонение запроса контрагентом
	protected.HandleFunc("/change-requests/{requestId}/reject", rejectChangeRequest.Handle).Methods(http.MethodPost)

	// Отмена запроса инициатором
	protected.HandleFunc("/change-requests/{requestId}/cancel", cancelChangeRequest.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
