// Package blobstore keeps the tracker state as one opaque blob per key.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("blob not found")

// Store loads and saves whole blobs. Save replaces the previous blob atomically.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// ValidateKey rejects keys that are empty or could escape a directory or prefix.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("blob key must not be empty")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("blob key %q must not contain path elements", key)
	}
	return nil
}
