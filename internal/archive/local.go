package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore writes artifacts below a base directory
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive directory: %w", err)
	}
	return &LocalStore{baseDir: filepath.Clean(absDir)}, nil
}

// safePath resolves key inside the base directory, rejecting traversal
func (s *LocalStore) safePath(key string) (string, error) {
	resolved := filepath.Clean(filepath.Join(s.baseDir, filepath.Clean(key)))
	if resolved != s.baseDir && !strings.HasPrefix(resolved, s.baseDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return resolved, nil
}

// Put writes data to <baseDir>/<key>
func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.safePath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive object: %w", err)
	}
	return path, nil
}

// Get reads <baseDir>/<key>
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.safePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// List walks the base directory and returns slash-separated keys under prefix
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op
func (s *LocalStore) Close() error {
	return nil
}
