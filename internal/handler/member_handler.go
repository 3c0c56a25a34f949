package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/storage"
	"github.com/procert/registry-backend/pkg/utils"
)

const maxUploadSize = 10 * 1024 * 1024

type MemberHandler struct {
	memberService *service.MemberService
	validator     *utils.Validator
}

func NewMemberHandler(memberService *service.MemberService, validator *utils.Validator) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		validator:     validator,
	}
}

// readUpload pulls an optional multipart file into a service upload.
func readUpload(c *fiber.Ctx, field string) (*service.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// Absent file is fine; both images are optional.
		return nil, nil
	}

	if fileHeader.Size > maxUploadSize {
		return nil, fmt.Errorf("%s exceeds the 10MB upload limit", field)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !isSupportedImage(contentType) {
		return nil, fmt.Errorf("%s must be a JPEG, PNG, GIF or WebP image", field)
	}

	data, err := readFileHeader(fileHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}

	return &service.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func isSupportedImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func (h *MemberHandler) AddMember(c *fiber.Ctx) error {
	var req models.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	passport, err := readUpload(c, storage.FieldPassportPhoto)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}
	signature, err := readUpload(c, storage.FieldSignature)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	member, err := h.memberService.Create(c.Context(), req, passport, signature)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(member, "Member created successfully"))
}

func (h *MemberHandler) GetMembers(c *fiber.Ctx) error {
	members, err := h.memberService.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(members)
}

// GetPublicMembers serves the public directory of active members.
func (h *MemberHandler) GetPublicMembers(c *fiber.Ctx) error {
	members, err := h.memberService.GetActive()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}

func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid member ID"))
	}

	var req models.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	passport, err := readUpload(c, storage.FieldPassportPhoto)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}
	signature, err := readUpload(c, storage.FieldSignature)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	member, err := h.memberService.Update(c.Context(), uint(id), req, passport, signature)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(member, "Member updated successfully"))
}

func (h *MemberHandler) DeleteMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid member ID"))
	}

	if err := h.memberService.Delete(c.Context(), uint(id)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Member deleted successfully"))
}

func (h *MemberHandler) DeleteAllMembers(c *fiber.Ctx) error {
	deleted, err := h.memberService.DeleteAll()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"deleted": deleted}, "All members deleted"))
}

// VerifyMember resolves a member card by code for the public admin-panel
// verification form.
func (h *MemberHandler) VerifyMember(c *fiber.Ctx) error {
	var req models.VerifyMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	card, err := h.memberService.VerifyByCode(req.Code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"member":  card,
	})
}
