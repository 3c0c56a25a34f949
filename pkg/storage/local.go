package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage writes blobs to a directory tree on disk. This is the
// development default; cloud deployments use MemoryStorage or S3Storage
// because the platform filesystem is ephemeral.
type LocalStorage struct {
	baseDir string
	baseURL string
}

func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	for _, dir := range []string{"passports", "signatures", "files"} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create uploads dir: %w", err)
		}
	}
	return &LocalStorage{baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *LocalStorage) Type() string { return "local" }

func (s *LocalStorage) path(field, filename string) string {
	return filepath.Join(s.baseDir, FieldDir(field), filename)
}

func (s *LocalStorage) Save(ctx context.Context, field, filename string, data []byte) (*FileInfo, error) {
	path := s.path(field, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &FileInfo{
		Filename:    filename,
		Path:        path,
		URL:         fmt.Sprintf("%s/api/uploads/%s/%s", s.baseURL, FieldDir(field), filename),
		StorageType: s.Type(),
	}, nil
}

func (s *LocalStorage) Get(ctx context.Context, field, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.path(field, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *LocalStorage) Delete(ctx context.Context, field, filename string) (bool, error) {
	err := os.Remove(s.path(field, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file: %w", err)
	}
	return true, nil
}

func (s *LocalStorage) List(ctx context.Context) (*Listing, error) {
	passports, err := s.listDir("passports")
	if err != nil {
		return nil, err
	}
	signatures, err := s.listDir("signatures")
	if err != nil {
		return nil, err
	}

	return &Listing{
		Passports:  passports,
		Signatures: signatures,
		Total:      len(passports) + len(signatures),
	}, nil
}

func (s *LocalStorage) listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
