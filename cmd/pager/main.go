package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"doc-pager/internal/app"
	"doc-pager/internal/httputil"
	"doc-pager/internal/paginator"
	"doc-pager/internal/queue"
	"doc-pager/internal/store"
)

func main() {
	deps, err := app.Build("pager", 0)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	deps.Log.Info("pager worker starting", "config", deps.Pager.Config())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypePaginate, func(ctx context.Context, task queue.Task) error {
			var payload queue.PaginatePayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handlePaginate(ctx, deps, payload)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(ctx, deps, "pager")
	})

	// Wait for either to fail
	if err := g.Wait(); err != nil {
		deps.Log.Error("pager service stopped", "err", err)
	}
}

func handlePaginate(ctx context.Context, deps app.Deps, payload queue.PaginatePayload) error {
	log := deps.Log.With("document_id", payload.DocumentID)

	cfg := deps.Pager.Config()
	if payload.Config != nil {
		cfg = *payload.Config
	}
	var orphans, widows int
	pager, err := paginator.New(cfg, paginator.WithLogger(log), paginator.WithObserver(func(c paginator.Correction) {
		if c.Kind == paginator.CorrectionOrphan {
			orphans++
		} else {
			widows++
		}
	}))
	if err != nil {
		// Retrying cannot fix a bad configuration.
		log.Error("rejecting paginate task", "err", err)
		return markFailed(ctx, deps, payload, err)
	}

	start := time.Now()
	texts := pager.Paginate(payload.Content)
	pages := make([]store.Page, len(texts))
	for i, info := range paginator.Describe(texts) {
		pages[i] = store.Page{Index: info.Index, Text: texts[i], Length: info.Length}
	}
	log.Info("document paginated",
		"filename", payload.Filename,
		"pages", len(pages),
		"orphans_fixed", orphans,
		"widows_fixed", widows,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if _, err := deps.Store.SavePages(ctx, payload.DocumentID, pages); err != nil {
		return fmt.Errorf("save pages: %w", err)
	}
	if err := deps.Store.UpdateDocumentStatus(ctx, payload.DocumentID, store.StatusPaginated); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	task, err := queue.NewTask(queue.TaskTypeSummarize, queue.SummarizePayload{
		DocumentID: payload.DocumentID,
		PageCount:  len(pages),
	})
	if err != nil {
		return err
	}
	return queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond)
}

// markFailed records a permanent failure and swallows err so the task is not retried.
func markFailed(ctx context.Context, deps app.Deps, payload queue.PaginatePayload, cause error) error {
	if err := deps.Store.UpdateDocumentStatus(ctx, payload.DocumentID, store.StatusFailed); err != nil {
		return fmt.Errorf("mark failed after %v: %w", cause, err)
	}
	return nil
}
