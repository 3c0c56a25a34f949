package storage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"
)

// Upload field names used by the admin panel's multipart forms.
const (
	FieldPassportPhoto = "passportPhoto"
	FieldSignature     = "signature"
)

// ErrNotFound is returned by Get when no blob exists under the filename.
var ErrNotFound = errors.New("storage: file not found")

// FileInfo describes a stored blob.
type FileInfo struct {
	Filename    string `json:"filename"`
	Path        string `json:"path,omitempty"`
	URL         string `json:"url"`
	StorageType string `json:"storageType"`
}

// Listing groups stored filenames by upload field.
type Listing struct {
	Passports  []string `json:"passports"`
	Signatures []string `json:"signatures"`
	Total      int      `json:"total"`
}

// Storage persists binary uploads under generated filenames.
type Storage interface {
	Save(ctx context.Context, field, filename string, data []byte) (*FileInfo, error)
	Get(ctx context.Context, field, filename string) ([]byte, error)
	// Delete reports whether the blob existed; absence is not an error.
	Delete(ctx context.Context, field, filename string) (bool, error)
	List(ctx context.Context) (*Listing, error)
	Type() string
}

// FieldDir maps an upload field to its directory/key prefix.
func FieldDir(field string) string {
	switch field {
	case FieldPassportPhoto:
		return "passports"
	case FieldSignature:
		return "signatures"
	default:
		return "files"
	}
}

// GenerateFilename builds a collision-resistant name for an upload,
// preserving the original extension: {field}-{epochMillis}-{rand}{ext}.
func GenerateFilename(field, originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
