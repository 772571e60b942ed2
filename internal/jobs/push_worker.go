package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notifycsc/notify-csc/internal/core"
)

const pendingPerPoll = 5

// PushWorker broadcasts announcements queued for push to every registered
// device. Tokens are split into batches that are sent by at most `workers`
// goroutines at a time.
type PushWorker struct {
	BaseWorker
	announcements core.AnnouncementRepo
	devices       core.DeviceTokenRepo
	sender        core.PushSender
	batchSize     int
	workers       int
	clock         func() time.Time
}

func NewPushWorker(
	announcements core.AnnouncementRepo,
	devices core.DeviceTokenRepo,
	sender core.PushSender,
	batchSize, workers int,
	interval time.Duration,
	log *slog.Logger,
) *PushWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &PushWorker{
		BaseWorker:    NewBaseWorker("push", interval, log),
		announcements: announcements,
		devices:       devices,
		sender:        sender,
		batchSize:     batchSize,
		workers:       workers,
		clock:         time.Now,
	}
}

func (w *PushWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.processPending)
}

func (w *PushWorker) processPending(ctx context.Context) error {
	pending, err := w.announcements.FindPendingPush(ctx, pendingPerPoll)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	tokens, err := w.devices.AllTokens(ctx)
	if err != nil {
		return err
	}

	for _, a := range pending {
		if err := w.broadcast(ctx, a, tokens); err != nil {
			w.log.Error("push broadcast failed", "announcement_id", a.ID, "err", err)
		}
	}
	return nil
}

type broadcastResult struct {
	mu           sync.Mutex
	sent, failed int
	batchErrors  int
	unregistered []string
}

func (w *PushWorker) broadcast(ctx context.Context, a core.Announcement, tokens []string) error {
	msg := core.PushMessage{
		Title:    a.Title,
		Body:     summarize(a.Content, 160),
		ImageURL: a.ImageURL,
		Data:     map[string]string{"announcementId": a.ID, "type": "announcement"},
	}

	batches := chunk(tokens, w.batchSize)
	var res broadcastResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i, batch := range batches {
		g.Go(func() error {
			out, err := w.sender.SendBatch(gctx, batch, msg)
			res.mu.Lock()
			defer res.mu.Unlock()
			if err != nil {
				// One failed batch does not stop the others.
				w.log.Warn("push batch failed", "announcement_id", a.ID, "batch", i, "size", len(batch), "err", err)
				res.failed += len(batch)
				res.batchErrors++
				return nil
			}
			res.sent += out.Success
			res.failed += out.Failure
			res.unregistered = append(res.unregistered, out.Unregistered...)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if len(res.unregistered) > 0 {
		if err := w.devices.Delete(ctx, res.unregistered); err != nil {
			w.log.Warn("failed to prune unregistered tokens", "count", len(res.unregistered), "err", err)
		}
	}

	status := core.PushStatusSent
	if len(batches) > 0 && res.batchErrors == len(batches) {
		status = core.PushStatusFailed
	}

	w.log.Info("push broadcast complete",
		"announcement_id", a.ID,
		"status", status,
		"tokens", len(tokens),
		"batches", len(batches),
		"sent", res.sent,
		"failed", res.failed,
		"pruned", len(res.unregistered),
	)
	return w.announcements.UpdatePushResult(ctx, a.ID, status, res.sent, res.failed, w.clock())
}

func chunk(tokens []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		out = append(out, tokens[start:end])
	}
	return out
}

func summarize(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
