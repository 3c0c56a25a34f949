package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procert/registry-backend/pkg/storage"
)

func newUploadApp(store storage.Storage) *fiber.App {
	h := NewUploadHandler(store)
	app := fiber.New()
	app.Get("/api/uploads/passports/:filename", h.ServePassport)
	app.Get("/api/uploads/signatures/:filename", h.ServeSignature)
	return app
}

func TestUploadHandler_ServesStoredFile(t *testing.T) {
	store := storage.NewMemoryStorage("http://localhost:8080")
	_, err := store.Save(context.Background(), storage.FieldPassportPhoto, "passportPhoto-1-1.png", []byte("png-bytes"))
	require.NoError(t, err)

	app := newUploadApp(store)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/uploads/passports/passportPhoto-1-1.png", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), body)
}

func TestUploadHandler_NotFoundListsAvailable(t *testing.T) {
	store := storage.NewMemoryStorage("http://localhost:8080")
	_, err := store.Save(context.Background(), storage.FieldPassportPhoto, "passportPhoto-1-1.png", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), storage.FieldSignature, "signature-2-2.png", []byte("b"))
	require.NoError(t, err)

	app := newUploadApp(store)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/uploads/passports/missing.png", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Success        bool     `json:"success"`
		Error          string   `json:"error"`
		StorageType    string   `json:"storageType"`
		AvailableFiles []string `json:"availableFiles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "missing.png")
	assert.Equal(t, "memory", body.StorageType)
	// Only the requested field's files are listed.
	assert.Equal(t, []string{"passportPhoto-1-1.png"}, body.AvailableFiles)
}
