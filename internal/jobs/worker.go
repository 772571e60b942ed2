package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Worker defines a background job started by cmd/api.
type Worker interface {
	Start(ctx context.Context)
	Name() string
}

// BaseWorker provides common polling infrastructure.
type BaseWorker struct {
	name     string
	interval time.Duration
	log      *slog.Logger
}

func NewBaseWorker(name string, interval time.Duration, log *slog.Logger) BaseWorker {
	return BaseWorker{
		name:     name,
		interval: interval,
		log:      log.With("worker", name),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Poll runs work immediately and then every interval until ctx is cancelled.
func (w *BaseWorker) Poll(ctx context.Context, work func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval)

	w.run(ctx, work)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-ticker.C:
			w.run(ctx, work)
		}
	}
}

func (w *BaseWorker) run(ctx context.Context, work func(context.Context) error) {
	if err := work(ctx); err != nil && ctx.Err() == nil {
		w.log.Error("worker error", "err", err)
	}
}
