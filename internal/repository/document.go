package repository

import (
	"context"
	"encoding/json"

	"eduteach/internal/domain"
)

// DocumentRepository stores JSON documents grouped by collection.
type DocumentRepository interface {
	// Insert assigns an id when the document has none and persists it.
	Insert(ctx context.Context, collection string, doc domain.Document) error
	// Get decodes the document into out or returns ErrNotFound.
	Get(ctx context.Context, collection, id string, out any) error
	// List returns raw documents in insertion order.
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
	Count(ctx context.Context, collection string) (int, error)
	// CountWhere counts documents whose top-level field equals value.
	CountWhere(ctx context.Context, collection, field string, value any) (int, error)
	// Increment adds one to a top-level numeric field.
	Increment(ctx context.Context, collection, id, field string) error
	Ping(ctx context.Context) error
}
