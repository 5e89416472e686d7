package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doc-pager/internal/app"
	"doc-pager/internal/paginator"
	"doc-pager/internal/queue"
	"doc-pager/internal/store"
)

func newTestDeps(t *testing.T, st store.Store, q queue.Queue) app.Deps {
	t.Helper()
	pager, err := paginator.New(paginator.Config{MaxPageLength: 20, OrphanLength: 5, WidowLength: 5})
	require.NoError(t, err)
	return app.Deps{
		Store: st,
		Queue: q,
		Pager: pager,
		Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHandlePaginate(t *testing.T) {
	docID := uuid.New()

	tests := []struct {
		name    string
		payload queue.PaginatePayload
		setup   func(*store.MockStore, *queue.MockQueue)
		wantErr bool
	}{
		{
			name: "short text becomes a single page",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Filename:   "test.txt",
				Content:    "A short document.",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SavePages", mock.Anything, docID, []store.Page{{Index: 0, Text: "A short document.", Length: 17}}).
					Return([]store.Page{{ID: uuid.New(), DocumentID: docID}}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, docID, store.StatusPaginated).Return(nil).Once()
				q.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
					var payload queue.SummarizePayload
					if err := json.Unmarshal(task.Payload, &payload); err != nil {
						return false
					}
					return task.Type == queue.TaskTypeSummarize && payload.DocumentID == docID && payload.PageCount == 1
				})).Return(nil).Once()
			},
		},
		{
			name: "long text creates multiple pages",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Filename:   "long.txt",
				Content:    strings.Repeat("word ", 100),
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SavePages", mock.Anything, docID, mock.MatchedBy(func(pages []store.Page) bool {
					for i, p := range pages {
						if p.Index != i {
							return false
						}
					}
					return len(pages) > 1
				})).Return([]store.Page{}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, docID, store.StatusPaginated).Return(nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "payload config overrides defaults",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Content:    "hello world",
				Config:     &paginator.Config{MaxPageLength: 5, OrphanLength: 1, WidowLength: 1},
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SavePages", mock.Anything, docID, []store.Page{
					{Index: 0, Text: "hello", Length: 5},
					{Index: 1, Text: "world", Length: 5},
				}).Return([]store.Page{}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, docID, store.StatusPaginated).Return(nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "invalid payload config marks the document failed",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Content:    "hello world",
				Config:     &paginator.Config{MaxPageLength: 0, OrphanLength: 1, WidowLength: 1},
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("UpdateDocumentStatus", mock.Anything, docID, store.StatusFailed).Return(nil).Once()
			},
		},
		{
			name: "empty content stores one empty page",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Content:    "",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SavePages", mock.Anything, docID, []store.Page{{Index: 0, Text: "", Length: 0}}).
					Return([]store.Page{}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, docID, store.StatusPaginated).Return(nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "store SavePages failure propagates error",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Content:    "Test content",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SavePages", mock.Anything, docID, mock.Anything).
					Return(nil, errors.New("database error")).Once()
			},
			wantErr: true,
		},
		{
			name: "queue enqueue failure returns error",
			payload: queue.PaginatePayload{
				DocumentID: docID,
				Content:    "Test content",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SavePages", mock.Anything, docID, mock.Anything).Return([]store.Page{}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, docID, store.StatusPaginated).Return(nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("queue error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(store.MockStore)
			mockQueue := new(queue.MockQueue)
			if tt.setup != nil {
				tt.setup(mockStore, mockQueue)
			}

			err := handlePaginate(context.Background(), newTestDeps(t, mockStore, mockQueue), tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			mockStore.AssertExpectations(t)
			mockQueue.AssertExpectations(t)
		})
	}
}
