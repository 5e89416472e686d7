package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusPaginated  DocumentStatus = "paginated"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrSummaryNotFound  = errors.New("summary not found")
)

type Document struct {
	ID        uuid.UUID
	Filename  string
	Status    DocumentStatus
	CreatedAt time.Time
}

// Page is one stored page of a paginated document.
type Page struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Index      int
	Text       string
	Length     int
}

type Summary struct {
	DocumentID uuid.UUID
	Summary    string
	KeyPoints  []string
}

// Store defines persistence contract; an external DB implementation can replace this.
type Store interface {
	CreateDocument(ctx context.Context, filename string) (Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (Document, error)
	UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status DocumentStatus) error
	SavePages(ctx context.Context, docID uuid.UUID, pages []Page) ([]Page, error)
	ListPages(ctx context.Context, docID uuid.UUID) ([]Page, error)
	SaveSummary(ctx context.Context, docID uuid.UUID, summary Summary) error
	GetSummary(ctx context.Context, docID uuid.UUID) (Summary, error)
}
