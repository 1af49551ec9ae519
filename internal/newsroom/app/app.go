package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/matteiweekly/newsroom/internal/newsroom/http"
	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/internal/newsroom/store/drivers/sqlite"
	"github.com/matteiweekly/newsroom/pkg/cryptox"
	"github.com/matteiweekly/newsroom/pkg/jwtx"
	"github.com/matteiweekly/newsroom/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	// TokenIssuer is the iss claim on session tokens.
	TokenIssuer = "newsroom"
)

// Application encapsulates the newsroom service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	sessionService      *service.SessionService
	userService         *service.UserService
	articleService      *service.ArticleService
	chatService         *service.ChatService
	todoService         *service.TodoService
	notificationService *service.NotificationService
	exportService       *service.ExportService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService
	dispatcher          *service.Dispatcher

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "newsroom",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	signer, err := jwtx.NewSigner([]byte(cfg.SessionSecret), TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("newsroom service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down newsroom service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("newsroom service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.dispatcher = &service.Dispatcher{Store: app.db}

	app.sessionService = &service.SessionService{
		Store:      app.db,
		Signer:     app.signer,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.userService = &service.UserService{
		Store:               app.db,
		RegistrationEnabled: app.cfg.RegistrationEnabled,
	}
	app.articleService = &service.ArticleService{
		Store:      app.db,
		Dispatcher: app.dispatcher,
	}
	app.chatService = &service.ChatService{
		Store:      app.db,
		Dispatcher: app.dispatcher,
	}
	app.todoService = &service.TodoService{
		Store:      app.db,
		Dispatcher: app.dispatcher,
	}
	app.notificationService = &service.NotificationService{Store: app.db}
	app.exportService = &service.ExportService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.ArticleService = app.articleService
	router.ChatService = app.chatService
	router.TodoService = app.todoService
	router.NotificationService = app.notificationService
	router.ExportService = app.exportService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
