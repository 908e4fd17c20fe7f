package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ArticlesRenderer/internal/ports"
)

// Store reads page sources and writes rendered pages on the local filesystem.
// Relative paths are resolved against root.
type Store struct {
	root string
}

var _ ports.PageStore = (*Store)(nil)

// New returns a store rooted at root; an empty root means the working directory.
func New(root string) *Store {
	return &Store{root: root}
}

// Read loads the file at path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return data, nil
}

// Write replaces the file at path, creating parent directories as needed.
// The content is written to a temporary file first so readers never see a partial page.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.resolve(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".render-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace page: %w", err)
	}

	return nil
}

func (s *Store) resolve(path string) string {
	if s.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}
