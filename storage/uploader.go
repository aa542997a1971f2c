// Package storage holds the object store abstraction used for winner
// certificate documents.
package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores rendered certificates and hands out the public
// URLs embedded in patron-facing responses.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// GetPublicURL returns the browse URL for a stored key. It does
	// not check that the key exists.
	GetPublicURL(key string) string
}
