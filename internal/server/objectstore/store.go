// Package objectstore abstracts the external object storage that holds the
// actual file bytes. The server itself never proxies file content: clients
// upload and download through presigned URLs minted here.
package objectstore

import (
	"context"
	"time"
)

// Store is the object storage surface the services depend on.
type Store interface {
	// PresignPut mints a time-limited URL authorizing a single PUT of the
	// given content type to key.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	// PresignGet mints a time-limited URL authorizing a GET of key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Exists reports whether an object is present at key.
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the object at key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
