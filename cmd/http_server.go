package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	auditlogPostgres "github.com/frahmantamala/childcare-management/internal/auditlog/postgres"
	"github.com/frahmantamala/childcare-management/internal/auth"
	authPostgres "github.com/frahmantamala/childcare-management/internal/auth/postgres"
	"github.com/frahmantamala/childcare-management/internal/category"
	categoryPostgres "github.com/frahmantamala/childcare-management/internal/category/postgres"
	"github.com/frahmantamala/childcare-management/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/childcare-management/internal/dashboard/postgres"
	"github.com/frahmantamala/childcare-management/internal/employee"
	employeePostgres "github.com/frahmantamala/childcare-management/internal/employee/postgres"
	"github.com/frahmantamala/childcare-management/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/childcare-management/internal/inventory/postgres"
	"github.com/frahmantamala/childcare-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/childcare-management/internal/permission/postgres"
	"github.com/frahmantamala/childcare-management/internal/resource"
	resourcePostgres "github.com/frahmantamala/childcare-management/internal/resource/postgres"
	"github.com/frahmantamala/childcare-management/internal/store"
	"github.com/frahmantamala/childcare-management/internal/transport"
	"github.com/frahmantamala/childcare-management/internal/transport/middleware"
	"github.com/frahmantamala/childcare-management/internal/transport/rest"
	"github.com/frahmantamala/childcare-management/internal/transport/swagger"
	"github.com/frahmantamala/childcare-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
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
	Config   *internal.Config
	DB       *store.DB
	Router   *chi.Mux
	Queue    *auditlog.Queue
	Logger   *slog.Logger
	Handlers rest.Handlers
	Options  rest.Options
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.Handlers, deps.Options, deps.Logger)

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
		if deps.Queue != nil {
			if err := deps.Queue.Shutdown(ctx); err != nil {
				deps.Logger.Error("Audit queue shutdown error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	if _, err := swagger.LoadSpec(ctx, config.Server.OpenAPIPath); err != nil {
		return nil, err
	}

	loginLimiter := middleware.NewRateLimiter(config.RateLimit.LoginPerSecond, config.RateLimit.LoginBurst)
	if err := loginLimiter.TrustProxies(config.RateLimit.TrustedProxies); err != nil {
		return nil, fmt.Errorf("rate_limit config: %w", err)
	}

	db, err := store.Open(ctx, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	tx := store.NewTransactor(db.Gorm)
	base := transport.NewBaseHandler(lg)

	auditRepo := auditlogPostgres.NewRepository(db.Gorm)
	var (
		recorder auditlog.Recorder
		queue    *auditlog.Queue
	)
	if config.Audit.Async {
		queue = auditlog.NewQueue(auditRepo, auditlog.QueueConfig{
			Workers:      config.Audit.Workers,
			QueueSize:    config.Audit.QueueSize,
			WriteTimeout: config.Audit.WriteTimeout,
		}, lg)
		recorder = queue
	} else {
		recorder = auditlog.NewSyncRecorder(auditRepo, lg)
	}

	permissionService := permission.NewService(permissionPostgres.NewRepository(db.Gorm), tx, auditRepo, lg)
	authService := auth.NewService(
		authPostgres.NewRepository(db.Gorm),
		auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration),
		lg,
	)
	registry := resource.DefaultRegistry(config.Security.BCryptCost)
	resourceService := resource.NewService(resourcePostgres.NewRepository(db.Gorm), recorder, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(db.Gorm), tx, auditRepo, config.Security.BCryptCost, lg)
	inventoryService := inventory.NewService(inventoryPostgres.NewInventoryRepository(db.Gorm), tx, auditRepo, lg)
	auditService := auditlog.NewService(auditRepo, lg)
	dashboardService := dashboard.NewService(dashboardPostgres.NewRepository(db.SQLX), lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db.Gorm), lg)

	var health *rest.HealthHandler
	if queue != nil {
		health = rest.NewHealthHandler(db.SQL(), queue)
	} else {
		health = rest.NewHealthHandler(db.SQL(), nil)
	}

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: chi.NewRouter(),
		Queue:  queue,
		Logger: lg,
		Handlers: rest.Handlers{
			Health:     health,
			Auth:       auth.NewHandler(base, authService),
			Resource:   resource.NewHandler(base, resourceService, registry),
			Employee:   employee.NewHandler(base, employeeService),
			Inventory:  inventory.NewHandler(base, inventoryService),
			Permission: permission.NewHandler(base, permissionService),
			AuditLog:   auditlog.NewHandler(base, auditService),
			Dashboard:  dashboard.NewHandler(base, dashboardService, func() int { return time.Now().Year() }),
			Category:   category.NewHandler(base, categoryService),
		},
		Options: rest.Options{
			Checker:        permissionService,
			Verifier:       authService,
			LoginLimiter:   loginLimiter,
			AllowedOrigins: config.Server.AllowedOrigins,
			OpenAPIPath:    config.Server.OpenAPIPath,
		},
	}, nil
}
