package storage

import (
	"context"
	"io"
)

// Storage is the object store used for stylist portraits.
type Storage interface {
	// Put stores the object under key, replacing any previous content.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for key.
	GetURL(key string) string
}

// KeyFromURL strips the public base URL from url and returns the object key,
// or "" when url does not belong to the store.
func KeyFromURL(s Storage, url string) string {
	prefix := s.GetURL("")
	if url == "" || len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return ""
	}
	return url[len(prefix):]
}
