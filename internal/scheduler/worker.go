package scheduler

import (
	"context"
	"fmt"

	historyservice "roadsaver_backend/internal/history/service"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// HistoryRecorder persists history on behalf of the worker.
type HistoryRecorder interface {
	RecordCompletion(ctx context.Context, in historyservice.Completion) error
	RecordDecline(ctx context.Context, in historyservice.Decline) error
	Prune(ctx context.Context) (historyservice.PruneResult, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	history HistoryRecorder
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, history HistoryRecorder, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:  server,
		history: history,
		log:     log,
	}
	w.mux = w.routes()
	return w, nil
}

func (w *Worker) routes() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskHistoryCompletion, w.handleHistoryCompletion)
	mux.HandleFunc(TaskHistoryDecline, w.handleHistoryDecline)
	mux.HandleFunc(TaskHistoryPrune, w.handleHistoryPrune)
	return mux
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

func (w *Worker) handleHistoryCompletion(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseHistoryCompletionPayload(task)
	if err != nil {
		return err
	}
	if err := w.history.RecordCompletion(ctx, payload); err != nil {
		w.log.Warn("history completion failed", "requestId", payload.RequestID, "error", err)
		return err
	}
	return nil
}

func (w *Worker) handleHistoryDecline(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseHistoryDeclinePayload(task)
	if err != nil {
		return err
	}
	if err := w.history.RecordDecline(ctx, payload); err != nil {
		w.log.Warn("history decline failed", "requestId", payload.RequestID, "error", err)
		return err
	}
	return nil
}

func (w *Worker) handleHistoryPrune(ctx context.Context, _ *asynq.Task) error {
	_, err := w.history.Prune(ctx)
	return err
}
