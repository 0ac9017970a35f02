// Package filestore defines the object-storage contract used to archive
// persisted scan reports in a compliance bucket. Callers depend only on
// this package — never on a specific provider package.
package filestore

import (
	"context"
	"io"
)

// Store is the interface all storage providers implement. encscan only
// ever writes report files, so the surface is PUT-scoped.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// PutObject uploads size bytes from r to key inside bucket and
	// returns the object location ("bucket/key").
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Config holds all settings needed to connect to a storage backend.
type Config struct {
	// Endpoint is the host:port of the storage server,
	// e.g. "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Bucket is the bucket reports are archived to.
	Bucket string
}
