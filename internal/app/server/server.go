package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/assessments"
	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/clients"
	"workforce/internal/domain/kpi"
	"workforce/internal/domain/notifications"
	"workforce/internal/domain/reports"
	"workforce/internal/domain/reports/export"
	"workforce/internal/platform/config"
	"workforce/internal/platform/crypto"
	"workforce/internal/platform/datastore"
	"workforce/internal/platform/db"
	"workforce/internal/platform/email"
	"workforce/internal/platform/events"
	"workforce/internal/platform/jobs"
	"workforce/internal/platform/llm"
	"workforce/internal/platform/logging"
	"workforce/internal/platform/metrics"
	"workforce/internal/platform/objectstore"
	"workforce/internal/transport/http/api"
	assessmentshandler "workforce/internal/transport/http/handlers/assessments"
	audithandler "workforce/internal/transport/http/handlers/audit"
	clientshandler "workforce/internal/transport/http/handlers/clients"
	jobshandler "workforce/internal/transport/http/handlers/jobs"
	kpihandler "workforce/internal/transport/http/handlers/kpi"
	notificationshandler "workforce/internal/transport/http/handlers/notifications"
	reportshandler "workforce/internal/transport/http/handlers/reports"
	"workforce/internal/transport/http/middleware"
)

// developmentSecret signs tokens when JWT_SECRET is unset outside production.
const developmentSecret = "workforce-development-secret"

type App struct {
	Config  config.Config
	Store   datastore.Gateway
	Engine  *kpi.Engine
	Reports *reports.Service
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler

	TenantID    string
	AdminUserID string

	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = developmentSecret
	}

	app := &App{Config: cfg, Metrics: metrics.New()}
	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.RunSeed {
		tenantID, err := db.Seed(ctx, app.Store, cfg.SeedTenantName)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("seed tenant: %w", err)
		}
		userID, err := db.SeedUser(ctx, app.Store, tenantID, cfg.SeedAdminEmail, auth.RoleAdmin)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		app.TenantID, app.AdminUserID = tenantID, userID
	}

	policy, err := kpi.LoadPolicy(cfg.KPIPolicyFile)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Engine = kpi.NewEngine(kpi.DefaultCatalog(), policy)

	if err := app.wire(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.StorageDriver {
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, a.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		a.pool = pool
		a.Store = datastore.NewPostgres(pool)
		if a.Config.RunMigrations {
			if err := db.Migrate(ctx, db.SQLFromPool(pool), db.DialectPostgres); err != nil {
				a.Close()
				return err
			}
		}
	case config.StorageSQLite:
		sqlDB, err := db.OpenSQLite(ctx, a.Config.SQLitePath)
		if err != nil {
			return err
		}
		a.sqlDB = sqlDB
		a.Store = datastore.NewSQL(sqlDB)
		if a.Config.RunMigrations {
			if err := db.Migrate(ctx, sqlDB, db.DialectSQLite); err != nil {
				a.Close()
				return err
			}
		}
	default:
		a.Store = datastore.NewMemory()
	}
	return nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config
	perms := auth.NewPermissionSet(auth.RolePermissions)

	auditSvc := audit.New(a.Store)
	clientSvc := clients.NewService(clients.NewStore(a.Store))
	assessmentSvc := assessments.NewService(assessments.NewStore(a.Store), clientSvc, a.Engine)

	notifySvc := notifications.New(notifications.NewStore(a.Store), email.New(cfg))
	notifySvc.DefaultFrom = cfg.EmailFrom
	notifySvc.EmailEnabled = cfg.EmailEnabled

	a.Jobs = jobs.New(a.Store, cfg.JobQueueSize)
	jobCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Jobs.Start(jobCtx)

	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return fmt.Errorf("encryption key: %w", err)
	}
	artifacts, err := objectstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}

	svc := reports.NewService(reports.NewStore(a.Store), assessmentSvc, clientSvc, reports.NewComposer(a.Engine))
	svc.Audit = auditSvc
	svc.Notifier = notifySvc
	svc.Jobs = a.Jobs
	svc.Metrics = a.Metrics
	svc.Events = events.NoopPublisher{}
	if artifacts != nil {
		svc.Artifacts = artifacts
		svc.Renderer = export.PDF
		if sealer.Configured() {
			svc.Sealer = sealer
		}
	}
	if cfg.EventsQueueURL != "" {
		publisher, err := events.NewSQS(ctx, cfg.AWSRegion, cfg.EventsQueueURL)
		if err != nil {
			return fmt.Errorf("events publisher: %w", err)
		}
		svc.Events = publisher
	}
	if cfg.NarrativeProvider != "" {
		provider, err := llm.NewProvider(cfg.NarrativeProvider, cfg.NarrativeModel, cfg.NarrativeAPIKey)
		if err != nil {
			return fmt.Errorf("narrative provider: %w", err)
		}
		svc.Narrator = reports.NewLLMNarrator(provider)
	}
	a.Reports = svc

	kpiHandler := kpihandler.NewHandler(a.Engine, perms)
	kpiHandler.Metrics = a.Metrics
	assessmentHandler := assessmentshandler.NewHandler(assessmentSvc, perms)
	assessmentHandler.Audit = auditSvc

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Store.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		kpiHandler.RegisterRoutes(r)
		clientshandler.NewHandler(clientSvc, perms).RegisterRoutes(r)
		assessmentHandler.RegisterRoutes(r)
		reportshandler.NewHandler(svc, perms, middleware.NewIdempotencyStore(a.Store)).RegisterRoutes(r)
		jobshandler.NewHandler(a.Jobs, perms).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc, perms).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, perms).RegisterRoutes(r)
	})

	a.Router = router
	return nil
}

// Close stops the job workers and releases the database.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		a.Jobs.Wait()
		a.cancel = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			slog.Warn("sqlite close failed", "err", err)
		}
		a.sqlDB = nil
	}
}

func Run() error {
	cfg := config.Load()
	logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("workforce server listening", "addr", cfg.Addr, "storage", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
