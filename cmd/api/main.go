package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admissions_crm_backend/internal/achievements"
	"admissions_crm_backend/internal/adapters/storage"
	"admissions_crm_backend/internal/audit"
	brochuremod "admissions_crm_backend/internal/brochures"
	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/followups"
	followuprepo "admissions_crm_backend/internal/followups/repository"
	followupservice "admissions_crm_backend/internal/followups/service"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/http/router"
	"admissions_crm_backend/internal/leads"
	leadrepo "admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/notification"
	"admissions_crm_backend/internal/notification/campaign"
	"admissions_crm_backend/internal/scheduler"
	"admissions_crm_backend/internal/stages"
	"admissions_crm_backend/internal/users"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/db"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

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

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminder, closeReminder := initReminderScheduler(cfg, log)
	if closeReminder != nil {
		defer closeReminder()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Brochure storage (MinIO); optional, the brochure notification step
	// reports itself failed when absent.
	var brochures notification.BrochurePresigner
	var brochureStore *storage.BrochureStore
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewBrochureStore(cfg)
		if err != nil {
			log.Error("failed to initialize brochure store", "error", err)
			panic("failed to initialize brochure store: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure brochure bucket", 5, 2*time.Second, func() error {
			return store.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure brochure bucket exists", "error", err)
			panic("failed to ensure brochure bucket exists: " + err.Error())
		}
		brochures = store
		brochureStore = store
		log.Info("brochure store initialized", "bucket", cfg.GetMinioBucketBrochures())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; brochure sends disabled")
	}

	var opsEmail notification.OpsEmailer
	if sender := notification.NewEmailSender(cfg); sender != nil {
		opsEmail = sender
	} else {
		log.Warn("SMTP not configured; ops emails disabled")
	}

	campaignClient := campaign.NewClient(cfg, log)
	if campaignClient == nil {
		log.Warn("CAMPAIGN_API_URL not configured; outbound messages disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	stagesModule, err := stages.NewModule(ctx, pool, eventBus, cfg.GetDefaultStageScore(), val, log)
	if err != nil {
		log.Error("failed to initialize stages module", "error", err)
		panic("failed to initialize stages module: " + err.Error())
	}

	usersModule := users.NewModule(pool)
	leadsModule := leads.NewModule(pool, eventBus, usersModule.Repository(), stagesModule.Resolver(), stagesModule.Catalog(), val)
	achievementsModule := achievements.NewModule(pool, eventBus, log)
	followupsModule := followups.NewModule(pool, leadsModule.Service(), reminder, val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	orchestrator := notification.NewOrchestrator(
		campaignClient, brochures, opsEmail,
		cfg.GetOpsRecipientPhone(), cfg.GetOpsRecipientName(),
		cfg.GetBrochureFileKey(), log)
	notificationModule := notification.New(
		orchestrator, leadrepo.New(pool), followuprepo.New(pool),
		cfg.GetOpsRecipientPhone(), cfg.GetOpsRecipientName(), log)
	notificationModule.RegisterHandlers(eventBus)

	// Audit trail subscribes to domain events (not HTTP-facing)
	audit.New(pool, log).RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	modules := []apphttp.Module{
		stagesModule,
		leadsModule,
		usersModule,
		achievementsModule,
		followupsModule,
	}
	if brochureStore != nil {
		modules = append(modules, brochuremod.NewModule(brochureStore))
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (followupservice.ReminderEnqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
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
