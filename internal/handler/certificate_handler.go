package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/qrcode"
	"github.com/procert/registry-backend/pkg/utils"
)

type CertificateHandler struct {
	certService *service.CertificateService
	qrService   *qrcode.QRService
	validator   *utils.Validator
}

func NewCertificateHandler(certService *service.CertificateService, qrService *qrcode.QRService, validator *utils.Validator) *CertificateHandler {
	return &CertificateHandler{
		certService: certService,
		qrService:   qrService,
		validator:   validator,
	}
}

func (h *CertificateHandler) GetCertificates(c *fiber.Ctx) error {
	certs, err := h.certService.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(certs)
}

// IssueCertificate upserts by certificate number: a known number updates
// the existing certificate, a new number creates one (subject to the
// capacity ceiling).
func (h *CertificateHandler) IssueCertificate(c *fiber.Ctx) error {
	var req models.IssueCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	cert, created, err := h.certService.Issue(req)
	if err != nil {
		return respondError(c, err)
	}

	message := "Certificate updated successfully"
	if created {
		message = "Certificate issued successfully"
	}
	return c.JSON(models.SuccessResponse(cert, message))
}

func (h *CertificateHandler) RevokeCertificate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid certificate ID"))
	}

	var req models.RevokeCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	revokedBy := req.RevokedBy
	if revokedBy == "" {
		if email, ok := c.Locals("adminEmail").(string); ok {
			revokedBy = email
		}
	}

	cert, err := h.certService.Revoke(uint(id), req.Reason, revokedBy)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(cert, "Certificate revoked"))
}

func (h *CertificateHandler) RestoreCertificate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid certificate ID"))
	}

	cert, err := h.certService.Restore(uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(cert, "Certificate restored"))
}

func (h *CertificateHandler) DeleteCertificate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid certificate ID"))
	}

	if err := h.certService.Delete(uint(id)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Certificate deleted"))
}

func (h *CertificateHandler) BulkDeleteCertificates(c *fiber.Ctx) error {
	var req models.BulkDeleteCertificatesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if len(req.AllIDs()) == 0 && len(req.AllNumbers()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No certificate ids or numbers provided"))
	}

	deleted, err := h.certService.BulkDelete(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"deleted": deleted}, "Certificates deleted"))
}

// VerifyCertificate is the public verification endpoint; it also persists
// lazy expiry when the validity window has elapsed.
func (h *CertificateHandler) VerifyCertificate(c *fiber.Ctx) error {
	var req models.VerifyCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	cert, err := h.certService.Verify(req.Number)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"certificate": cert,
	})
}

// CertificateQR renders a PNG QR code pointing at the public verification
// page for the certificate.
func (h *CertificateHandler) CertificateQR(c *fiber.Ctx) error {
	number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Certificate number is required"))
	}

	size := c.QueryInt("size", 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := h.qrService.CertificateQR(number, size)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
