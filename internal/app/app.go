// Package app wires the planner from configuration. Both binaries share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-planner/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-planner/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-planner/internal/adapters/vault"
	"github.com/comitanigiacomo/kanso-planner/internal/adapters/watcher"
	"github.com/comitanigiacomo/kanso-planner/internal/config"
	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
	"github.com/comitanigiacomo/kanso-planner/internal/core/workers"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

var ErrVaultMissing = errors.New("vault root is not a folder")

type App struct {
	Config     *config.Config
	Log        *logger.Logger
	Vault      *vault.FSVault
	Layout     services.Layout
	Chart      domain.ChartConfig
	Categories services.CategorySource
	Summary    *services.SummaryService
	Planner    *services.PlannerService
	Tokens     *services.TokenService
	Auth       *services.AuthService
	Worker     *workers.SummaryWorker
	Clock      func() time.Time

	redis        *redis.Client
	categoryHits *cache.CachedCategorySource
	checks       map[string]adapterHTTP.HealthCheck
	closers      []func() error
	startedAt    time.Time
}

// New builds every service. Optional backends (redis, database) fail hard
// when enabled but unreachable.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Log:       log,
		checks:    make(map[string]adapterHTTP.HealthCheck),
		startedAt: time.Now(),
	}

	loc, err := cfg.Vault.Location()
	if err != nil {
		return nil, err
	}
	a.Clock = func() time.Time { return time.Now().In(loc) }

	a.Vault, err = vault.NewFSVault(cfg.Vault.Root)
	if err != nil {
		return nil, err
	}
	a.checks["vault"] = func(ctx context.Context) error {
		kind, err := a.Vault.Stat(ctx, "")
		if err == nil && kind != domain.EntryFolder {
			err = ErrVaultMissing
		}
		return err
	}

	a.Layout = services.Layout{
		PlannerDir:  cfg.Vault.PlannerDir,
		TasksDir:    cfg.Vault.TasksDir,
		HealthDir:   cfg.Vault.HealthDir,
		SummaryFile: cfg.Vault.SummaryFile,
	}

	a.Chart = domain.DefaultChartConfig()
	if len(cfg.Chart.DefaultCategories) > 0 {
		a.Chart.DefaultCategories = cfg.Chart.DefaultCategories
	}
	if a.Chart, err = a.Chart.WithColors(cfg.Chart.Colors); err != nil {
		return nil, fmt.Errorf("chart colors: %w", err)
	}

	if cfg.Redis.Enabled {
		a.redis, err = cache.NewRedisClient(cache.Options{
			Host:     cfg.Redis.Host,
			Port:     strconv.Itoa(cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, a.redis.Close)
		a.checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}

	archive, err := a.openArchive(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var notifier domain.Notifier = notify.NewLogNotifier(log)
	if a.redis != nil {
		notifier = notify.Multi{notifier, notify.NewRedisNotifier(a.redis, log)}
	}

	categories := services.NewCategoryService(a.Vault, a.Layout, a.Chart, log)
	a.Categories = categories
	if a.redis != nil {
		a.categoryHits = cache.NewCachedCategorySource(categories, a.redis, log)
		a.Categories = a.categoryHits
	}

	aggregator := services.NewAggregatorService(a.Vault, a.Layout, a.Categories, log)
	a.Summary = services.NewSummaryService(a.Vault, a.Layout, aggregator, services.NewRenderer(a.Chart), archive, notifier, log)
	a.Planner = services.NewPlannerService(a.Vault, a.Layout, a.Categories, aggregator, a.Summary, a.Chart, notifier, a.Clock, log)
	a.Worker = workers.NewSummaryWorker(a.Summary, cfg.Scheduler.Queue, log)

	a.buildAuth()
	return a, nil
}

func (a *App) openArchive(ctx context.Context) (domain.SummaryRepository, error) {
	db := a.Config.Database

	switch db.Driver {
	case "postgres":
		conn, err := repository.ConnectPostgres(ctx, db.DSN())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		a.checks["database"] = conn.PingContext

		migrator := repository.NewMigrator(conn.DB, db.MigrationsPath, a.Log)
		if err := migrator.WaitForDatabase(); err != nil {
			return nil, err
		}
		if err := migrator.Up(); err != nil {
			return nil, err
		}
		return repository.NewPostgresSummaryRepository(conn), nil

	case "sqlite":
		gdb, err := repository.OpenSQLite(db.SQLitePath)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		a.checks["database"] = sqlDB.PingContext
		return repository.NewSQLiteSummaryRepository(gdb), nil

	default:
		return repository.NewInMemorySummaryRepository(), nil
	}
}

func (a *App) buildAuth() {
	cfg := a.Config.Auth

	credential := &domain.Credential{Subject: cfg.Subject, PassphraseHash: cfg.PassphraseHash}
	if cfg.PassphraseHash == "" {
		a.Log.Warn("auth.passphrase_hash not set, API logins are disabled")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
	}

	a.Tokens = services.NewTokenService(secret, cfg.Issuer, cfg.TokenTTL, services.CredentialChecker{Credential: credential})
	a.Auth = services.NewAuthService(credential, a.Tokens)
}

func (a *App) Router() *gin.Engine {
	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(a.Auth, a.Tokens),
		PlannerHandler:  adapterHTTP.NewPlannerHandler(a.Planner),
		SummaryHandler:  adapterHTTP.NewSummaryHandler(a.Summary, a.Worker, a.Clock),
		CategoryHandler: adapterHTTP.NewCategoryHandler(a.Categories, a.Chart, a.Clock),
		Tokens:          a.Tokens,
		Redis:           a.redis,
		RateLimit: adapterHTTP.RateLimit{
			Requests: a.Config.Server.RateLimit,
			Window:   a.Config.Server.RateWindow,
		},
		Checks:    a.checks,
		Logger:    a.Log,
		StartTime: a.startedAt,
	})
}

// StartBackground starts the summary worker and, when enabled, the daily
// scheduler and the vault watcher. Everything stops with ctx.
func (a *App) StartBackground(ctx context.Context) error {
	a.Worker.Start(ctx)

	if a.Config.Scheduler.Enabled {
		bootstrap := workers.BootstrapFunc(func(ctx context.Context) error {
			_, err := a.Planner.Bootstrap(ctx)
			return err
		})
		workers.NewScheduler(bootstrap, a.Worker, a.Config.Scheduler.Hour, a.Clock, a.Log).Start(ctx)
	}

	if a.Config.Watcher.Enabled {
		if err := a.Watch(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Watch follows the tasks and health folders and queues a regeneration after
// each burst of edits.
func (a *App) Watch(ctx context.Context) error {
	dirs := []string{
		filepath.Join(a.Vault.Root(), filepath.FromSlash(a.Layout.TasksRoot())),
		filepath.Join(a.Vault.Root(), filepath.FromSlash(a.Layout.HealthRoot())),
	}

	w, err := watcher.New(dirs, a.Config.Watcher.Debounce, a.HandleVaultChange, a.Log)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	a.closers = append(a.closers, func() error { w.Stop(); return nil })
	return nil
}

// HandleVaultChange drops cached categories when a tracker changed and queues
// a summary for today.
func (a *App) HandleVaultChange(ctx context.Context, paths []string) {
	now := a.Clock()

	if a.categoryHits != nil {
		for _, p := range paths {
			rel, err := a.Vault.Rel(p)
			if err != nil {
				continue
			}
			if strings.HasPrefix(rel, a.Layout.HealthRoot()+"/") {
				a.categoryHits.Invalidate(ctx, now)
				a.categoryHits.Invalidate(ctx, now.AddDate(0, 0, domain.DaysPerWeek))
				break
			}
		}
	}

	if !a.Worker.Enqueue(now, "vault change") {
		a.Log.Warn("summary queue full, vault change ignored", zap.Int("files", len(paths)))
	}
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Serve runs the API until ctx is cancelled, then drains open requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("kanso planner API listening", zap.String("addr", srv.Addr), zap.String("vault", a.Vault.Root()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	a.Log.Info("server stopped gracefully")
	return nil
}
