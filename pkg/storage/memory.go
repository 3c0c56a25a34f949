package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"sync"
)

// MemoryStorage keeps base64-encoded blobs in a process-wide map. It is a
// documented stand-in for real object storage on platforms with ephemeral
// filesystems: unbounded, and not durable across restarts or instances.
// Every Get after a restart fails with ErrNotFound until the blob is
// re-uploaded.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	baseURL string
}

type memoryEntry struct {
	field string
	data  string // base64 payload
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]memoryEntry),
		baseURL: baseURL,
	}
}

func (s *MemoryStorage) Type() string { return "memory" }

func (s *MemoryStorage) Save(ctx context.Context, field, filename string, data []byte) (*FileInfo, error) {
	s.mu.Lock()
	s.entries[filename] = memoryEntry{
		field: field,
		data:  base64.StdEncoding.EncodeToString(data),
	}
	s.mu.Unlock()

	return &FileInfo{
		Filename:    filename,
		URL:         fmt.Sprintf("%s/api/uploads/%s/%s", s.baseURL, FieldDir(field), filename),
		StorageType: s.Type(),
	}, nil
}

func (s *MemoryStorage) Get(ctx context.Context, field, filename string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[filename]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	data, err := base64.StdEncoding.DecodeString(entry.data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored file: %w", err)
	}
	return data, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, field, filename string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[filename]; !ok {
		return false, nil
	}
	delete(s.entries, filename)
	return true, nil
}

func (s *MemoryStorage) List(ctx context.Context) (*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing := &Listing{Passports: []string{}, Signatures: []string{}}
	for name, entry := range s.entries {
		switch entry.field {
		case FieldPassportPhoto:
			listing.Passports = append(listing.Passports, name)
		case FieldSignature:
			listing.Signatures = append(listing.Signatures, name)
		}
	}
	sort.Strings(listing.Passports)
	sort.Strings(listing.Signatures)
	listing.Total = len(listing.Passports) + len(listing.Signatures)
	return listing, nil
}
