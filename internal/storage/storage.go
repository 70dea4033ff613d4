package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string     `json:"key"`
	Size         int64      `json:"size"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// Service stores uploaded files in remote object storage.
type Service interface {
	// Upload writes body under key (relative to the configured prefix) and
	// returns the location clients should use to fetch it.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
