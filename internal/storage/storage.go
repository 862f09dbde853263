// Package storage keeps uploaded listing images in a blob store and hands back
// their public URLs.
package storage

import (
	"context"
	"strings"
)

// ImageStore writes and removes image objects. Put overwrites an existing
// object with the same key.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
