// Package objectstore archives rendered report artifacts on disk or in S3.
package objectstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"workforce/internal/platform/config"
)

var ErrInvalidKey = errors.New("invalid storage key")

type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// New picks the backend named by OBJECT_STORE. "none" yields a nil Store.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.ObjectStore {
	case config.ObjectStoreLocal:
		return NewLocal(cfg.LocalStoreDir), nil
	case config.ObjectStoreS3:
		store, err := NewS3(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

// ReportKey is the storage key of a report artifact.
func ReportKey(tenantID, reportID, ext string) string {
	return path.Join("tenants", tenantID, "reports", reportID+"."+strings.TrimPrefix(ext, "."))
}

func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != strings.TrimLeft(key, "/") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
