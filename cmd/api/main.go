package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"roadsaver_backend/internal/adapters"
	"roadsaver_backend/internal/employees"
	"roadsaver_backend/internal/events"
	"roadsaver_backend/internal/history"
	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/internal/http/router"
	"roadsaver_backend/internal/i18n"
	"roadsaver_backend/internal/notification"
	"roadsaver_backend/internal/requests"
	requestsrepo "roadsaver_backend/internal/requests/repository"
	requestsservice "roadsaver_backend/internal/requests/service"
	"roadsaver_backend/internal/scheduler"
	"roadsaver_backend/migrations"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/db"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	applied, err := db.RunMigrations(ctx, pool, migrations.FS)
	if err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete", "applied", applied)

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	snapshots, closeSnapshots := initSnapshotStore(cfg, log)
	defer closeSnapshots()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	i18nModule, err := i18n.NewModule(cfg, i18n.NewRepository(pool), val, log)
	if err != nil {
		log.Error("failed to initialize i18n module", "error", err)
		panic("failed to initialize i18n module: " + err.Error())
	}
	if err := i18nModule.Load(ctx); err != nil {
		log.Warn("translation overrides unavailable; serving static resources", "error", err)
	}

	employeesModule := employees.NewModule(pool, cfg, val, log)
	historyModule := history.NewModule(pool, cfg.GetHistoryKeep(), val, log)

	recorder, closeRecorder := initHistoryRecorder(cfg, historyModule, log)
	defer closeRecorder()

	requestsModule, err := requests.NewModule(
		cfg,
		adapters.NewEmployeePool(employeesModule.Service()),
		recorder,
		snapshots,
		eventBus,
		val,
		log,
	)
	if err != nil {
		log.Error("failed to initialize requests module", "error", err)
		panic("failed to initialize requests module: " + err.Error())
	}

	notificationModule := notification.New(
		i18nModule.Service().Engine(),
		adapters.NewRequestOwners(requestsModule.Service()),
		cfg.GetDefaultLanguage(),
		allowOrigin(cfg),
		log,
	)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:    cfg,
		Logger:    log,
		Health:    db.NewPoolAdapter(pool),
		EventBus:  eventBus,
		Languages: supportedLanguages(cfg.GetDefaultLanguage()),
		Modules: []apphttp.Module{
			i18nModule,
			employeesModule,
			historyModule,
			requestsModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	requestsModule.Shutdown()
	notificationModule.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown incomplete", "error", err)
	}
	eventBus.Wait()
}

// initSnapshotStore keeps quote snapshots in Redis when configured and in
// process memory otherwise.
func initSnapshotStore(cfg *config.Config, log *logger.Logger) (requestsservice.SnapshotStore, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; quote snapshots kept in memory")
		return requestsrepo.NewMemorySnapshotStore(cfg.GetQuoteSnapshotTTL()), func() {}
	}

	client, err := requestsrepo.NewRedisClient(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to initialize redis snapshot store", "error", err)
		return requestsrepo.NewMemorySnapshotStore(cfg.GetQuoteSnapshotTTL()), func() {}
	}

	return requestsrepo.NewRedisSnapshotStore(client, cfg.GetQuoteSnapshotTTL()), func() {
		_ = client.Close()
	}
}

// initHistoryRecorder queues history writes for the scheduler worker when
// Redis is available and writes them inline otherwise.
func initHistoryRecorder(cfg *config.Config, historyModule *history.Module, log *logger.Logger) (requestsservice.CompletionRecorder, func()) {
	direct := adapters.NewHistoryRecorder(historyModule.Service())
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; history written inline")
		return direct, func() {}
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize history queue client", "error", err)
		return direct, func() {}
	}

	historyModule.SetPruneQueue(client)
	return adapters.NewQueuedHistoryRecorder(client), func() {
		_ = client.Close()
	}
}

func supportedLanguages(defaultLang string) []language.Tag {
	tags := []language.Tag{language.English, language.Bulgarian}
	if defaultLang == i18n.Bulgarian {
		tags[0], tags[1] = tags[1], tags[0]
	}
	return tags
}

func allowOrigin(cfg config.HTTPConfig) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || cfg.GetCORSAllowAll() {
			return true
		}
		return slices.Contains(cfg.GetCORSOrigins(), origin)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
