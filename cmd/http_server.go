package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/onboarding-portal/api"
	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/auth"
	authPostgres "github.com/frahmantamala/onboarding-portal/internal/auth/postgres"
	"github.com/frahmantamala/onboarding-portal/internal/candidate"
	candidatePostgres "github.com/frahmantamala/onboarding-portal/internal/candidate/postgres"
	"github.com/frahmantamala/onboarding-portal/internal/chatbot"
	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/dashboard"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
	employeePostgres "github.com/frahmantamala/onboarding-portal/internal/employee/postgres"
	"github.com/frahmantamala/onboarding-portal/internal/notification"
	"github.com/frahmantamala/onboarding-portal/internal/onboarding"
	onboardingPostgres "github.com/frahmantamala/onboarding-portal/internal/onboarding/postgres"
	"github.com/frahmantamala/onboarding-portal/internal/query"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	"github.com/frahmantamala/onboarding-portal/internal/transport/middleware"
	"github.com/frahmantamala/onboarding-portal/internal/transport/rest"
	"github.com/frahmantamala/onboarding-portal/internal/user"
	userPostgres "github.com/frahmantamala/onboarding-portal/internal/user/postgres"
	"github.com/frahmantamala/onboarding-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config       *internal.Config
	DB           *sqlx.DB
	GormDB       *gorm.DB
	Router       *chi.Mux
	EventBus     *events.EventBus
	Scheduler    *notification.Scheduler
	CloseLimiter func() error
	Logger       *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

// close drains in-flight event handlers before the notification queue, then releases connections.
func (d *Dependencies) close() {
	d.EventBus.Wait()
	d.Scheduler.Shutdown()
	if err := d.CloseLimiter(); err != nil {
		d.Logger.Error("Rate limiter close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	if _, err := api.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	limiter, closeLimiter, err := middleware.NewLimiter(config.RateLimit.RedisURL, lg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	scheduler := newScheduler(config, lg)

	handlers, err := buildHandlers(config, db, gormDB, eventBus, scheduler, lg)
	if err != nil {
		scheduler.Shutdown()
		_ = closeLimiter()
		_ = db.Close()
		return nil, err
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, handlers, rest.RouterConfig{
		AllowedOrigins: config.Server.AllowedOrigins,
		OpenAPISpec:    api.Spec,
		Limiter:        limiter,
		RateLimit:      config.RateLimit,
	}, lg)

	return &Dependencies{
		Config:       config,
		DB:           db,
		GormDB:       gormDB,
		Router:       router,
		EventBus:     eventBus,
		Scheduler:    scheduler,
		CloseLimiter: closeLimiter,
		Logger:       lg,
	}, nil
}

func newScheduler(config *internal.Config, lg *slog.Logger) *notification.Scheduler {
	return notification.NewScheduler(notification.NewSender(config.Notification, lg), notification.SchedulerConfig{
		MaxWorkers:  config.Notification.MaxWorkers,
		QueueSize:   config.Notification.QueueSize,
		SendTimeout: config.Notification.Timeout,
	}, lg)
}

func buildHandlers(
	config *internal.Config,
	db *sqlx.DB,
	gormDB *gorm.DB,
	eventBus *events.EventBus,
	scheduler *notification.Scheduler,
	lg *slog.Logger,
) (rest.Handlers, error) {
	base := transport.NewBaseHandler(lg)
	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)

	// Repositories
	userRepo := userPostgres.NewUserRepository(gormDB)
	candidateRepo := candidatePostgres.NewCandidateRepository(gormDB)
	onboardingRepo := onboardingPostgres.NewOnboardingRepository(gormDB)
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	credentialRepo := authPostgres.NewRepository(gormDB)

	// Services
	userService := user.NewService(userRepo)
	employeeService := employee.NewService(employeeRepo)
	authService := auth.NewService(credentialRepo, auth.NewJWTTokenGenerator(config.Security), lg)
	candidateService := candidate.NewService(candidateRepo, userService, hasher, eventBus, config.Onboarding, lg)
	onboardingService := onboarding.NewService(onboardingRepo, candidateRepo, userService, hasher, eventBus, config.Onboarding, lg)
	gateway := query.NewGateway(gormDB, lg)
	dashboardService := dashboard.NewService(gateway)

	kb, err := chatbot.LoadKnowledgeBase(config.Assistant.KnowledgeFile)
	if err != nil {
		return rest.Handlers{}, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	assistant := chatbot.NewAzureAssistant(config.Assistant, chatbot.NewSystemPrompts(kb), lg)
	if !assistant.Configured() {
		lg.Warn("assistant credentials missing; chatbot answers HR data queries only")
	}
	dispatcher := chatbot.NewDispatcher(chatbot.NewExecutor(gateway), assistant, config.Assistant.HistoryLimit, lg)

	// Event subscribers
	notification.NewEventHandler(scheduler, employeeService, config.Onboarding, lg).RegisterEventHandlers(eventBus)

	return rest.Handlers{
		Health:     rest.NewHealthHandler(db.DB),
		Auth:       auth.NewHandler(base, authService),
		User:       user.NewHandler(base, userService),
		Candidate:  candidate.NewHandler(base, candidateService),
		Onboarding: onboarding.NewHandler(base, onboardingService, config.Server.MaxUploadBytes),
		Employee:   employee.NewHandler(base, employeeService),
		Dashboard:  dashboard.NewHandler(base, dashboardService),
		Chatbot:    chatbot.NewHandler(base, dispatcher, assistant),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
}
