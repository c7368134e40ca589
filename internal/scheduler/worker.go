package scheduler

import (
	"context"
	"errors"
	"fmt"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/followups/repository"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpDue, w.handleFollowUpDue)

	return w, nil
}

// handleFollowUpDue republishes a due reminder onto the event bus. A
// follow-up completed or deleted between enqueue and fire is dropped
// silently; the row is the source of truth, the task is only a timer.
func (w *Worker) handleFollowUpDue(ctx context.Context, task *asynq.Task) error {
	if w.bus == nil {
		return nil
	}

	payload, err := ParseFollowUpDuePayload(task)
	if err != nil {
		return err
	}

	followUpID, err := uuid.Parse(payload.FollowUpID)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	f, err := w.repo.GetByID(ctx, followUpID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if f.Status == repository.StatusDone {
		return nil
	}

	return w.bus.PublishSync(ctx, events.FollowUpDue{
		BaseEvent:  events.NewBaseEvent(),
		FollowUpID: followUpID,
		LeadID:     leadID,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
