package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"eduteach/internal/domain"
	"eduteach/internal/repository"
)

// fieldName limits json paths to plain top-level keys.
var fieldName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// DocumentRepository keeps every collection in one table of JSON bodies.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Insert(ctx context.Context, collection string, doc domain.Document) error {
	if doc.DocumentID() == "" {
		doc.SetDocumentID(uuid.NewString())
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", collection, err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, body, created_at)
VALUES (?, ?, ?, ?)`,
		collection,
		doc.DocumentID(),
		string(body),
		time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s/%s: %w", collection, doc.DocumentID(), repository.ErrDuplicate)
		}
		return fmt.Errorf("insert %s document: %w", collection, err)
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string, out any) error {
	var body string
	err := r.db.QueryRowContext(ctx, `
SELECT body FROM documents
WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("get %s document: %w", collection, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode %s document: %w", collection, err)
	}
	return nil
}

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT body FROM documents
WHERE collection = ?
ORDER BY seq ASC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s documents: %w", collection, err)
	}
	return docs, nil
}

func (r *DocumentRepository) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s documents: %w", collection, err)
	}
	return n, nil
}

func (r *DocumentRepository) CountWhere(ctx context.Context, collection, field string, value any) (int, error) {
	if !fieldName.MatchString(field) {
		return 0, fmt.Errorf("invalid field name %q", field)
	}
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM documents
WHERE collection = ? AND json_extract(body, ?) = ?`,
		collection, "$."+field, value,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s documents by %s: %w", collection, field, err)
	}
	return n, nil
}

func (r *DocumentRepository) Increment(ctx context.Context, collection, id, field string) error {
	if !fieldName.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}
	path := "$." + field
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET body = json_set(body, ?, COALESCE(json_extract(body, ?), 0) + 1)
WHERE collection = ? AND id = ?`,
		path, path, collection, id,
	)
	if err != nil {
		return fmt.Errorf("increment %s.%s: %w", collection, field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
