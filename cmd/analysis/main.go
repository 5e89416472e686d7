package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"doc-pager/internal/app"
	"doc-pager/internal/httputil"
	"doc-pager/internal/queue"
	"doc-pager/internal/store"
)

// maxSummaryInput bounds the bytes of page text sent to the LLM.
const maxSummaryInput = 48000

func main() {
	deps, err := app.Build("analysis", app.WithLLM)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	deps.Log.Info("analysis worker starting")

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeSummarize, func(ctx context.Context, task queue.Task) error {
			var payload queue.SummarizePayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleSummarize(ctx, deps, payload)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(ctx, deps, "analysis")
	})

	// Wait for either to fail
	if err := g.Wait(); err != nil {
		deps.Log.Error("analysis service stopped", "err", err)
	}
}

func handleSummarize(ctx context.Context, deps app.Deps, payload queue.SummarizePayload) error {
	docID := payload.DocumentID
	log := deps.Log.With("document_id", docID)

	doc, err := deps.Store.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	pages, err := deps.Store.ListPages(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	var sum store.Summary
	if text, ok := summaryInput(doc.Filename, pages); ok {
		summaryText, keyPoints, err := deps.LLM.Summarize(ctx, text)
		if err != nil {
			return err
		}
		sum = store.Summary{Summary: summaryText, KeyPoints: keyPoints}
	} else {
		log.Info("document has no text, skipping LLM")
	}
	if err := deps.Store.SaveSummary(ctx, docID, sum); err != nil {
		return err
	}

	log.Info("document summarised", "pages", len(pages), "key_points", len(sum.KeyPoints))
	return deps.Store.UpdateDocumentStatus(ctx, docID, store.StatusReady)
}

// summaryInput renders pages with their numbers for the LLM, stopping before
// maxSummaryInput. It reports false when no page has text.
func summaryInput(filename string, pages []store.Page) (string, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", filename)
	header := b.Len()
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		section := fmt.Sprintf("\n[Page %d]\n%s\n", p.Index+1, p.Text)
		if b.Len() > header && b.Len()+len(section) > maxSummaryInput {
			break
		}
		b.WriteString(section)
	}
	if b.Len() == header {
		return "", false
	}
	return b.String(), true
}
