package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return newPostgresStore(context.Background(), db)
}

// newPostgresStore migrates db and takes ownership of it. db is closed when
// the migration fails.
func newPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Advisory lock keeps the gateway and the workers from migrating concurrently.
	const lockID = 724031

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}

	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			filename TEXT,
			status TEXT,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS pages (
			id UUID PRIMARY KEY,
			document_id UUID REFERENCES documents(id) ON DELETE CASCADE,
			ord INT,
			text TEXT,
			length INT
		);`,
		`CREATE INDEX IF NOT EXISTS pages_document_ord_idx ON pages (document_id, ord);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			document_id UUID PRIMARY KEY REFERENCES documents(id) ON DELETE CASCADE,
			summary TEXT,
			key_points TEXT[]
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateDocument(ctx context.Context, filename string) (Document, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `INSERT INTO documents(id, filename, status) VALUES($1,$2,$3)`,
		id, filename, StatusProcessing)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Filename: filename, Status: StatusProcessing, CreatedAt: time.Now()}, nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, id uuid.UUID) (Document, error) {
	doc := Document{ID: id}
	row := s.db.QueryRowContext(ctx, `SELECT filename, status, created_at FROM documents WHERE id=$1`, id)
	if err := row.Scan(&doc.Filename, &doc.Status, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return doc, nil
}

func (s *PostgresStore) UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status DocumentStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// SavePages replaces the pages of a document in one statement. Redelivered
// paginate tasks therefore leave a single copy behind.
func (s *PostgresStore) SavePages(ctx context.Context, docID uuid.UUID, pages []Page) ([]Page, error) {
	out := make([]Page, len(pages))
	ids := make([]string, len(pages))
	ords := make([]int64, len(pages))
	texts := make([]string, len(pages))
	lengths := make([]int64, len(pages))
	for i, p := range pages {
		p.ID = uuid.New()
		p.DocumentID = docID
		out[i] = p
		ids[i] = p.ID.String()
		ords[i] = int64(p.Index)
		texts[i] = p.Text
		lengths[i] = int64(p.Length)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id=$1`, docID); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO pages(id, document_id, ord, text, length)
		SELECT u.id::uuid, $1, u.ord, u.text, u.length
		FROM unnest($2::text[], $3::int[], $4::text[], $5::int[]) AS u(id, ord, text, length)`,
		docID, pq.Array(ids), pq.Array(ords), pq.Array(texts), pq.Array(lengths))
	if err != nil {
		return nil, fmt.Errorf("failed to insert pages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListPages(ctx context.Context, docID uuid.UUID) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ord, text, length FROM pages WHERE document_id=$1 ORDER BY ord`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Index, &p.Text, &p.Length); err != nil {
			return nil, err
		}
		p.DocumentID = docID
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveSummary(ctx context.Context, docID uuid.UUID, summary Summary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries(document_id, summary, key_points)
		VALUES($1,$2,$3)
		ON CONFLICT (document_id) DO UPDATE SET summary=excluded.summary, key_points=excluded.key_points`,
		docID, summary.Summary, pq.Array(nonNil(summary.KeyPoints)))
	return err
}

func (s *PostgresStore) GetSummary(ctx context.Context, docID uuid.UUID) (Summary, error) {
	var sum Summary
	var keyPoints []string
	row := s.db.QueryRowContext(ctx, `SELECT summary, key_points FROM summaries WHERE document_id=$1`, docID)
	if err := row.Scan(&sum.Summary, pq.Array(&keyPoints)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Summary{}, ErrSummaryNotFound
		}
		return Summary{}, fmt.Errorf("failed to get summary for doc %s: %w", docID, err)
	}
	sum.DocumentID = docID
	sum.KeyPoints = keyPoints
	return sum, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
