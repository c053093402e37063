package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore keeps objects on local disk for development and tests.
// Objects land under root and are served by whatever fronts baseURL.
type FilesystemStore struct {
	root    string
	baseURL string
}

func NewFilesystemStore(root, baseURL string) *FilesystemStore {
	return &FilesystemStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *FilesystemStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	clean := filepath.Clean(strings.TrimPrefix(key, "/"))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("storage: key %q escapes root", key)
	}
	path := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write: %w", err)
	}
	return s.baseURL + "/" + filepath.ToSlash(clean), nil
}
