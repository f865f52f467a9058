package reconciler

import (
	"context"
	"time"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"

	"go.uber.org/zap"
)

// Worker runs one sync batch per tick. The cursor carries over between ticks
// and wraps to the first order once a batch comes back short.
type Worker struct {
	enabled      bool
	pollInterval time.Duration
	batchSize    int
	useCase      portsin.SyncKlarnaOrdersUseCase
	logger       *zap.Logger

	cursor string
}

func NewWorker(
	enabled bool,
	pollInterval time.Duration,
	batchSize int,
	useCase portsin.SyncKlarnaOrdersUseCase,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Worker{
		enabled:      enabled,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		useCase:      useCase,
		logger:       logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.useCase == nil || w.pollInterval <= 0 {
		return
	}

	w.logger.Info("klarna order sync started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)

	w.runCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("klarna order sync stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	startedAt := time.Now()
	output, appErr := w.useCase.Execute(ctx, dto.SyncKlarnaOrdersCommand{
		AfterOrderID: w.cursor,
		BatchSize:    w.batchSize,
	})
	if appErr != nil {
		w.logger.Error("klarna order sync cycle failed",
			zap.String("after_order_id", w.cursor),
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Any("details", appErr.Details),
		)
		return
	}

	w.logger.Info("klarna order sync cycle completed",
		zap.String("after_order_id", w.cursor),
		zap.String("next_order_id", output.NextOrderID),
		zap.Int("scanned", output.Scanned),
		zap.Int("in_sync", output.InSync),
		zap.Int("out_of_sync", output.OutOfSync),
		zap.Int("skipped", output.Skipped),
		zap.Int("errors", output.Errors),
		zap.Int64("latency_ms", time.Since(startedAt).Milliseconds()),
	)
	w.cursor = output.NextOrderID
}
