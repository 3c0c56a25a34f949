package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("http://localhost:8080")

	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	info, err := s.Save(ctx, FieldPassportPhoto, "passportPhoto-1-2.png", payload)
	require.NoError(t, err)
	assert.Equal(t, "passportPhoto-1-2.png", info.Filename)
	assert.Equal(t, "memory", info.StorageType)
	assert.Equal(t, "http://localhost:8080/api/uploads/passports/passportPhoto-1-2.png", info.URL)

	got, err := s.Get(ctx, FieldPassportPhoto, "passportPhoto-1-2.png")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMemoryStorage_GetMissing(t *testing.T) {
	s := NewMemoryStorage("http://localhost:8080")

	_, err := s.Get(context.Background(), FieldPassportPhoto, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("http://localhost:8080")

	_, err := s.Save(ctx, FieldSignature, "signature-1-2.png", []byte("sig"))
	require.NoError(t, err)

	found, err := s.Delete(ctx, FieldSignature, "signature-1-2.png")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = s.Get(ctx, FieldSignature, "signature-1-2.png")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again reports absence without erroring.
	found, err = s.Delete(ctx, FieldSignature, "signature-1-2.png")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStorage_List(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("http://localhost:8080")

	_, err := s.Save(ctx, FieldPassportPhoto, "passportPhoto-1-1.png", []byte("a"))
	require.NoError(t, err)
	_, err = s.Save(ctx, FieldPassportPhoto, "passportPhoto-1-2.png", []byte("b"))
	require.NoError(t, err)
	_, err = s.Save(ctx, FieldSignature, "signature-1-1.png", []byte("c"))
	require.NoError(t, err)

	listing, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"passportPhoto-1-1.png", "passportPhoto-1-2.png"}, listing.Passports)
	assert.Equal(t, []string{"signature-1-1.png"}, listing.Signatures)
	assert.Equal(t, 3, listing.Total)
}
