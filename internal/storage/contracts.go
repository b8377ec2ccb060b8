package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the durable report store: upload by key, retrieve via a
// time-limited signed URL. Narrow on purpose so tests can fake it.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	PresignGet(ctx context.Context, key string, lifetime time.Duration) (string, error)
}
