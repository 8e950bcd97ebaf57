package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/types"
	"github.com/hackly/garage-backend/internal/utils"
)

// Worker drains the evaluation queue: claims pending requests oldest first and
// scores up to EVAL_WORKER_CONCURRENCY of them in parallel per tick. Multiple
// instances can run side by side; claiming uses SKIP LOCKED on postgres so no
// request is scored twice.
type Worker struct {
	log         *logger.Logger
	requests    repos.EvaluationRequestRepo
	evaluator   *Evaluator
	interval    time.Duration
	maxAttempts int
	concurrency int
}

func NewWorker(baseLog *logger.Logger, requests repos.EvaluationRequestRepo, evaluator *Evaluator) *Worker {
	log := baseLog.With("component", "EvalWorker")
	intervalSec := utils.GetEnvAsInt("EVAL_WORKER_INTERVAL_SECONDS", 1, baseLog)
	if intervalSec <= 0 {
		intervalSec = 1
	}
	maxAttempts := utils.GetEnvAsInt("EVAL_MAX_ATTEMPTS", 3, baseLog)
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	concurrency := utils.GetEnvAsInt("EVAL_WORKER_CONCURRENCY", 4, baseLog)
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		log:         log,
		requests:    requests,
		evaluator:   evaluator,
		interval:    time.Duration(intervalSec) * time.Second,
		maxAttempts: maxAttempts,
		concurrency: concurrency,
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.drain(ctx)
			}
		}
	}()
}

func (w *Worker) drain(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		req, err := w.requests.ClaimNextPending(ctx, nil, w.maxAttempts)
		if err != nil {
			w.log.Warn("ClaimNextPending failed", "error", err)
			break
		}
		if req == nil {
			break
		}
		g.Go(func() error {
			w.process(gctx, req)
			return nil
		})
	}
	_ = g.Wait()
}

func (w *Worker) drainOne(ctx context.Context) {
	req, err := w.requests.ClaimNextPending(ctx, nil, w.maxAttempts)
	if err != nil {
		w.log.Warn("ClaimNextPending failed", "error", err)
		return
	}
	if req == nil {
		return
	}
	w.process(ctx, req)
}

// process always drives the request to a terminal status, even on panic.
func (w *Worker) process(ctx context.Context, req *types.EvaluationRequest) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Evaluation panic", "request_id", req.ID, "panic", r)
			w.evaluator.markError(ctx, req, "internal error during evaluation")
		}
	}()
	w.evaluator.Process(ctx, req)
}
