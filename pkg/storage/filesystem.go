package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps generated report files in a flat directory on disk.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates the directory when missing and returns a handle.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		dir = "./exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save writes data under the storage directory and returns the filename.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	if err := os.WriteFile(s.Path(filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return filename, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *LocalStorage) Delete(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete report file: %w", err)
	}
	return nil
}

// Path resolves a filename inside the storage directory.
func (s *LocalStorage) Path(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.dir, filename)
}

// CleanupOlderThan deletes files whose modification time is past the given
// age and returns their names. Generated reports are one-shot downloads, so
// anything old enough is garbage.
func (s *LocalStorage) CleanupOlderThan(maxAge time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan reports directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove expired report: %w", err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}
