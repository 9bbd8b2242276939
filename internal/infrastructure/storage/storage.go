package storage

import "context"

// ObjectStorage abstracts manuscript and document storage so the service
// layer does not care whether files live in MinIO or on local disk.
type ObjectStorage interface {
	// Upload stores data under key and returns a URL the file can be
	// fetched from.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Download returns the full content stored under key.
	Download(ctx context.Context, key string) ([]byte, error)

	// Delete removes a single object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every object whose key starts with prefix.
	// Used when a submission is archived.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
