// Package storage persists uploaded inspection images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tyrecheck/tyrecheck-go/internal/config"
)

var ErrInvalidKey = errors.New("folder and filename must be plain path segments")

// ImageStore saves an image under folder/filename and returns where it was
// written. An existing object with the same name is replaced.
type ImageStore interface {
	Save(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

// New returns the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.Upload) (ImageStore, error) {
	switch cfg.Backend {
	case config.UploadBackendLocal:
		return NewLocalStore(cfg.Dir)
	case config.UploadBackendS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}

func checkSegment(s string) error {
	if s == "" || s == "." || s == ".." || filepath.Base(s) != s {
		return fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return nil
}
