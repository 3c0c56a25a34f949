package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewLocalStorage(dir, "http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "local", s.Type())

	payload := []byte("passport bytes")
	info, err := s.Save(ctx, FieldPassportPhoto, "passportPhoto-1-2.png", payload)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passports", "passportPhoto-1-2.png"), info.Path)

	got, err := s.Get(ctx, FieldPassportPhoto, "passportPhoto-1-2.png")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// The blob really is on disk under the field directory.
	onDisk, err := os.ReadFile(info.Path)
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)
}

func TestLocalStorage_DeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = s.Get(ctx, FieldSignature, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Save(ctx, FieldSignature, "signature-1-2.png", []byte("sig"))
	require.NoError(t, err)

	found, err := s.Delete(ctx, FieldSignature, "signature-1-2.png")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Delete(ctx, FieldSignature, "signature-1-2.png")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = s.Save(ctx, FieldPassportPhoto, "passportPhoto-1-1.png", []byte("a"))
	require.NoError(t, err)
	_, err = s.Save(ctx, FieldSignature, "signature-1-1.png", []byte("b"))
	require.NoError(t, err)

	listing, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"passportPhoto-1-1.png"}, listing.Passports)
	assert.Equal(t, []string{"signature-1-1.png"}, listing.Signatures)
	assert.Equal(t, 2, listing.Total)
}
