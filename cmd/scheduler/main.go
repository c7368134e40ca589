package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admissions_crm_backend/internal/events"
	followuprepo "admissions_crm_backend/internal/followups/repository"
	leadrepo "admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/notification"
	"admissions_crm_backend/internal/notification/campaign"
	"admissions_crm_backend/internal/scheduler"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/db"
	"admissions_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// Due reminders republished by the worker land on the bus; the
	// notification module turns them into ops messages.
	campaignClient := campaign.NewClient(cfg, log)
	if campaignClient == nil {
		log.Warn("CAMPAIGN_API_URL not configured; reminder messages disabled")
	}
	orchestrator := notification.NewOrchestrator(
		campaignClient, nil, nil,
		cfg.GetOpsRecipientPhone(), cfg.GetOpsRecipientName(),
		cfg.GetBrochureFileKey(), log)
	notificationModule := notification.New(
		orchestrator, leadrepo.New(pool), followuprepo.New(pool),
		cfg.GetOpsRecipientPhone(), cfg.GetOpsRecipientName(), log)
	notificationModule.RegisterHandlers(eventBus)

	worker, err := scheduler.NewWorker(cfg, pool, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
