package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"doc-pager/internal/app"
	"doc-pager/internal/cache"
	"doc-pager/internal/extract"
	"doc-pager/internal/httputil"
	"doc-pager/internal/paginator"
	"doc-pager/internal/queue"
	"doc-pager/internal/store"
)

type paginateRequest struct {
	Text          string `json:"text"`
	MaxPageLength *int   `json:"max_page_length" validate:"omitempty,min=1"`
	OrphanLength  *int   `json:"orphan_length" validate:"omitempty,min=1"`
	WidowLength   *int   `json:"widow_length" validate:"omitempty,min=1"`
}

type paginateResponse struct {
	Pages     []string             `json:"pages"`
	PageCount int                  `json:"page_count"`
	Stats     []paginator.PageInfo `json:"stats"`
	Config    paginator.Config     `json:"config"`
	Cached    bool                 `json:"cached"`
}

type pageResponse struct {
	ID     uuid.UUID `json:"id"`
	Index  int       `json:"index"`
	Text   string    `json:"text"`
	Length int       `json:"length"`
}

func main() {
	deps, err := app.Build("gateway", app.WithCache)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           routes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httputil.Serve(ctx, deps.Log, srv); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func routes(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/paginate", paginateHandler(deps))
	r.Post("/api/documents/upload", uploadHandler(deps))
	r.Get("/api/documents/{id}", documentHandler(deps))
	r.Get("/api/documents/{id}/pages", pagesHandler(deps))
	r.Get("/api/documents/{id}/summary", summaryHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	return r
}

// overrideConfig applies request overrides on top of the service defaults.
func overrideConfig(base paginator.Config, maxPage, orphan, widow *int) paginator.Config {
	if maxPage != nil {
		base.MaxPageLength = *maxPage
	}
	if orphan != nil {
		base.OrphanLength = *orphan
	}
	if widow != nil {
		base.WidowLength = *widow
	}
	return base
}

// pagerFor reuses the shared paginator when cfg matches the defaults.
func pagerFor(deps app.Deps, cfg paginator.Config) (*paginator.Paginator, error) {
	if deps.Pager != nil && deps.Pager.Config() == cfg {
		return deps.Pager, nil
	}
	return paginator.New(cfg, paginator.WithLogger(deps.Log))
}

func paginateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, deps.Config.MaxUploadSize)

		var req paginateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		cfg := overrideConfig(deps.Config.Pagination(), req.MaxPageLength, req.OrphanLength, req.WidowLength)
		pager, err := pagerFor(deps, cfg)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}

		ctx := r.Context()
		key := cache.GenerateCacheKey(req.Text, cfg)
		if pages, err := deps.Cache.GetPages(ctx, key); err != nil {
			deps.Log.Warn("cache lookup failed", "err", err)
		} else if pages != nil {
			deps.Log.Debug("cache hit", "key", key)
			httputil.WriteJSON(w, http.StatusOK, newPaginateResponse(pages, cfg, true))
			return
		}

		pages := pager.Paginate(req.Text)

		ttl := time.Duration(deps.Config.CacheTTL) * time.Second
		if err := deps.Cache.SetPages(ctx, key, pages, ttl); err != nil {
			// Log cache write failure but don't fail the request
			deps.Log.Warn("failed to cache pages", "err", err)
		}

		httputil.WriteJSON(w, http.StatusOK, newPaginateResponse(pages, cfg, false))
	}
}

func newPaginateResponse(pages []string, cfg paginator.Config, cached bool) paginateResponse {
	return paginateResponse{
		Pages:     pages,
		PageCount: len(pages),
		Stats:     paginator.Describe(pages),
		Config:    cfg,
		Cached:    cached,
	}
}

// formConfig reads optional pagination overrides from the upload form. It
// returns nil when the form carries none.
func formConfig(r *http.Request, base paginator.Config) (*paginator.Config, error) {
	values := make(map[string]*int, 3)
	for _, name := range []string{"max_page_length", "orphan_length", "widow_length"} {
		raw := r.FormValue(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		values[name] = &n
	}
	if len(values) == 0 {
		return nil, nil
	}
	cfg := overrideConfig(base, values["max_page_length"], values["orphan_length"], values["widow_length"])
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Validate file size before parsing
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		contentType, err := extract.ContentType(header.Header.Get("Content-Type"), header.Filename)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}

		cfg, err := formConfig(r, deps.Config.Pagination())
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid pagination settings", err, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text, err := extract.Text(contentType, content)
		if err != nil {
			deps.Log.Warn("text extraction failed, using raw bytes", "err", err, "filename", header.Filename)
			text = string(content)
		}

		doc, err := deps.Store.CreateDocument(ctx, header.Filename)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to persist document", err, http.StatusInternalServerError)
			return
		}

		task, err := queue.NewTask(queue.TaskTypePaginate, queue.PaginatePayload{
			DocumentID: doc.ID,
			Filename:   header.Filename,
			Content:    text,
			Config:     cfg,
		})
		if err != nil {
			fail(deps, ctx, w, "marshal payload failed", err, doc.ID, http.StatusInternalServerError, true)
			return
		}
		if err := queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			fail(deps, ctx, w, "failed to enqueue document; please retry", err, doc.ID, http.StatusInternalServerError, true)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"document_id": doc.ID.String(),
			"status":      doc.Status,
		})
	}
}

// fail is gateway-specific error handler that can mark documents as failed
func fail(deps app.Deps, ctx context.Context, w http.ResponseWriter, message string, err error, docID uuid.UUID, status int, markFailed bool) {
	log := deps.Log.With("document_id", docID)
	if markFailed && docID != uuid.Nil {
		if upErr := deps.Store.UpdateDocumentStatus(ctx, docID, store.StatusFailed); upErr != nil {
			log.Error("failed to mark document failed", "err", upErr)
		}
	}

	httputil.Fail(log, w, message, err, status)
}

// documentID parses the {id} route parameter, writing a 400 on failure.
func documentID(deps app.Deps, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(deps.Log, w, "invalid document id", err, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return docID, true
}

func documentHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID, ok := documentID(deps, w, r)
		if !ok {
			return
		}
		doc, err := deps.Store.GetDocument(r.Context(), docID)
		if errors.Is(err, store.ErrDocumentNotFound) {
			httputil.Fail(deps.Log, w, "document not found", err, http.StatusNotFound)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load document", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"document_id": doc.ID.String(),
			"filename":    doc.Filename,
			"status":      doc.Status,
			"created_at":  doc.CreatedAt,
		})
	}
}

func pagesHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID, ok := documentID(deps, w, r)
		if !ok {
			return
		}
		ctx := r.Context()
		doc, err := deps.Store.GetDocument(ctx, docID)
		if errors.Is(err, store.ErrDocumentNotFound) {
			httputil.Fail(deps.Log, w, "document not found", err, http.StatusNotFound)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load document", err, http.StatusInternalServerError)
			return
		}
		if doc.Status == store.StatusProcessing || doc.Status == store.StatusFailed {
			httputil.WriteJSON(w, http.StatusConflict, map[string]any{
				"document_id": doc.ID.String(),
				"status":      doc.Status,
			})
			return
		}

		pages, err := deps.Store.ListPages(ctx, docID)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list pages", err, http.StatusInternalServerError)
			return
		}
		out := make([]pageResponse, len(pages))
		for i, p := range pages {
			out[i] = pageResponse{ID: p.ID, Index: p.Index, Text: p.Text, Length: p.Length}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"document_id": docID.String(),
			"status":      doc.Status,
			"page_count":  len(out),
			"pages":       out,
		})
	}
}

func summaryHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID, ok := documentID(deps, w, r)
		if !ok {
			return
		}
		sum, err := deps.Store.GetSummary(r.Context(), docID)
		if errors.Is(err, store.ErrSummaryNotFound) {
			fail(deps, r.Context(), w, "summary not ready", err, docID, http.StatusNotFound, false)
			return
		}
		if err != nil {
			fail(deps, r.Context(), w, "failed to load summary", err, docID, http.StatusInternalServerError, false)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"summary":     sum.Summary,
			"key_points":  sum.KeyPoints,
			"document_id": docID,
		})
	}
}
