package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes images below a root directory on the local filesystem.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(ctx context.Context, folder, filename, _ string, body io.Reader) (string, error) {
	if err := checkSegment(folder); err != nil {
		return "", err
	}
	if err := checkSegment(filename); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating folder: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return filepath.ToSlash(path), nil
}
