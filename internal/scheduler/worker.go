package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/platform/config"
	"leadpulse_backend/platform/logger"
)

// Rescorer recomputes a lead's evaluation and persists the side effects
// (cache refresh, summary write-back). Implemented by the leads service.
type Rescorer interface {
	Rescore(ctx context.Context, leadID uuid.UUID) (scoring.Evaluation, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	rescorer Rescorer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, rescorer Rescorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
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
		server:   server,
		mux:      mux,
		rescorer: rescorer,
		log:      log,
	}

	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)
	mux.HandleFunc(TaskSummaryRefresh, w.handleSummaryRefresh)

	return w, nil
}

func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	eval, err := w.rescorer.Rescore(ctx, leadID)
	if err != nil {
		return fmt.Errorf("rescore lead %s: %w", leadID, err)
	}

	w.log.Info("lead rescored", "lead_id", leadID.String(), "total", eval.Score.Total, "stage", eval.Stage)
	return nil
}

// handleSummaryRefresh recomputes the lead so a fresh model summary is
// generated and written back. The work is the same as a rescore; the task
// exists so summary refreshes can be scheduled independently.
func (w *Worker) handleSummaryRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSummaryRefreshPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	if _, err := w.rescorer.Rescore(ctx, leadID); err != nil {
		return fmt.Errorf("refresh summary for lead %s: %w", leadID, err)
	}
	return nil
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
