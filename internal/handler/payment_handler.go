package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/utils"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	limitsService  *service.LimitsService
	webhookSecret  string
	validator      *utils.Validator
}

func NewPaymentHandler(paymentService *service.PaymentService, limitsService *service.LimitsService, webhookSecret string, validator *utils.Validator) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		limitsService:  limitsService,
		webhookSecret:  webhookSecret,
		validator:      validator,
	}
}

func (h *PaymentHandler) GetPaymentConfig(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.paymentService.Config(), ""))
}

// GetLimitsStatus reports both capacity checks plus the ceiling row.
func (h *PaymentHandler) GetLimitsStatus(c *fiber.Ctx) error {
	limits, err := h.limitsService.Current()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(fiber.Map{
		"limits":       limits,
		"members":      h.limitsService.CanAddMember(),
		"certificates": h.limitsService.CanAddCertificate(),
	}, ""))
}

func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req models.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	payment, err := h.paymentService.VerifyPayment(req.Reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(payment, "Payment verified"))
}

func (h *PaymentHandler) IncreaseLimits(c *fiber.Ctx) error {
	var req models.IncreaseLimitsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	session, err := h.paymentService.IncreaseLimits(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(session, "Limit increase initiated"))
}

func (h *PaymentHandler) DatabaseHosting(c *fiber.Ctx) error {
	var req models.DatabaseHostingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	session, err := h.paymentService.DatabaseHosting(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(session, "Hosting payment initiated"))
}

func (h *PaymentHandler) DatabaseStatus(c *fiber.Ctx) error {
	status, err := h.paymentService.DatabaseStatus()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(status, ""))
}

func (h *PaymentHandler) PaymentHistory(c *fiber.Ctx) error {
	payments, err := h.paymentService.History()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(payments, ""))
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(fmt.Sprintf("Webhook error: %v", err)))
	}

	if err := h.paymentService.HandleWebhook(&event); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
