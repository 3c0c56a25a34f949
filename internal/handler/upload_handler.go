package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/pkg/storage"
)

type UploadHandler struct {
	store storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) ServePassport(c *fiber.Ctx) error {
	return h.serve(c, storage.FieldPassportPhoto)
}

func (h *UploadHandler) ServeSignature(c *fiber.Ctx) error {
	return h.serve(c, storage.FieldSignature)
}

// ListFiles exposes the backend's full listing for admin diagnostics.
func (h *UploadHandler) ListFiles(c *fiber.Ctx) error {
	listing, err := h.store.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(listing, ""))
}

func (h *UploadHandler) serve(c *fiber.Ctx, field string) error {
	filename := c.Params("filename")

	data, err := h.store.Get(c.Context(), field, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return h.notFound(c, field, filename)
		}
		return respondError(c, err)
	}

	c.Set("Content-Type", sniffContentType(filename, data))
	return c.Send(data)
}

// notFound includes the field's available files to make debugging the
// memory backend's restart amnesia tractable.
func (h *UploadHandler) notFound(c *fiber.Ctx, field, filename string) error {
	available := []string{}
	if listing, err := h.store.List(c.Context()); err == nil {
		if field == storage.FieldPassportPhoto {
			available = listing.Passports
		} else {
			available = listing.Signatures
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success":        false,
		"error":          "File not found: " + filename,
		"storageType":    h.store.Type(),
		"availableFiles": available,
	})
}

func sniffContentType(filename string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
