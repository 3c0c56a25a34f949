package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
)

// Fixed price table exposed through the payment-config endpoint.
var PriceTable = map[string]float64{
	models.PaymentTypeIDCard:      15.00,
	models.PaymentTypeCertificate: 25.00,
	models.PaymentTypeDatabase:    50.00,
}

// PaymentStore is the ledger's persistence surface. Records are append
// only; nothing but the status is ever updated.
type PaymentStore interface {
	Create(payment *models.Payment) error
	GetByReference(reference string) (*models.Payment, error)
	UpdateStatus(id uint, status string) error
	GetHistory() ([]models.Payment, error)
	GetLatestByType(paymentType string) (*models.Payment, error)
}

// CheckoutClient creates hosted checkout sessions.
type CheckoutClient interface {
	CreateCheckoutSession(name, description string, amount float64, metadata map[string]string) (*stripe.CheckoutSession, error)
}

// LimitRaiser applies purchased ceiling increases.
type LimitRaiser interface {
	IncreaseLimits(newMemberLimit, newCertificateLimit *int) (*models.SystemLimits, error)
}

type PaymentService struct {
	payments       PaymentStore
	checkout       CheckoutClient
	limits         LimitRaiser
	publishableKey string
	logger         *zap.SugaredLogger
}

func NewPaymentService(payments PaymentStore, checkout CheckoutClient, limits LimitRaiser, publishableKey string, logger *zap.SugaredLogger) *PaymentService {
	return &PaymentService{
		payments:       payments,
		checkout:       checkout,
		limits:         limits,
		publishableKey: publishableKey,
		logger:         logger,
	}
}

// Config returns the public payment configuration for the admin panel.
func (s *PaymentService) Config() map[string]interface{} {
	return map[string]interface{}{
		"publishableKey": s.publishableKey,
		"currency":       "usd",
		"prices":         PriceTable,
	}
}

// IncreaseLimits starts a checkout session for a ceiling raise. A zero
// amount is the admin override path: the ceiling is raised immediately and
// a completed zero-amount ledger entry records it.
func (s *PaymentService) IncreaseLimits(req models.IncreaseLimitsRequest) (*models.CheckoutSession, error) {
	if req.MemberLimit == nil && req.CertificateLimit == nil {
		return nil, errors.New("no limit increase requested")
	}

	metadata := map[string]string{}
	if req.MemberLimit != nil {
		metadata["member_limit"] = strconv.Itoa(*req.MemberLimit)
	}
	if req.CertificateLimit != nil {
		metadata["certificate_limit"] = strconv.Itoa(*req.CertificateLimit)
	}

	paymentType := models.PaymentTypeIDCard
	if req.MemberLimit == nil {
		paymentType = models.PaymentTypeCertificate
	}

	if req.Amount == 0 {
		if _, err := s.limits.IncreaseLimits(req.MemberLimit, req.CertificateLimit); err != nil {
			return nil, err
		}

		reference := "manual-" + uuid.NewString()
		payment := &models.Payment{
			PaymentType: paymentType,
			Amount:      0,
			Method:      "manual",
			Status:      models.PaymentStatusCompleted,
			Reference:   reference,
			Metadata:    metadata,
		}
		if err := s.payments.Create(payment); err != nil {
			return nil, err
		}

		return &models.CheckoutSession{Reference: reference, Status: models.PaymentStatusCompleted}, nil
	}

	session, err := s.checkout.CreateCheckoutSession(
		"Registry limit increase",
		describeIncrease(req),
		req.Amount,
		metadata,
	)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		PaymentType: paymentType,
		Amount:      req.Amount,
		Method:      "card",
		Status:      models.PaymentStatusPending,
		Reference:   session.ID,
		Metadata:    metadata,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}

	return &models.CheckoutSession{
		ID:        session.ID,
		URL:       session.URL,
		Reference: session.ID,
		Status:    models.PaymentStatusPending,
	}, nil
}

// VerifyPayment confirms a payment by reference and applies any purchased
// limit increase. Re-verifying a completed payment is a no-op.
func (s *PaymentService) VerifyPayment(reference string) (*models.Payment, error) {
	payment, err := s.payments.GetByReference(reference)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentStatusCompleted {
		return payment, nil
	}

	if err := s.payments.UpdateStatus(payment.ID, models.PaymentStatusCompleted); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusCompleted

	if err := s.applyLimitMetadata(payment.Metadata); err != nil {
		return nil, err
	}

	s.logger.Infow("payment verified", "reference", reference, "type", payment.PaymentType)
	return payment, nil
}

// DatabaseHosting records a hosting payment and opens a checkout session.
func (s *PaymentService) DatabaseHosting(req models.DatabaseHostingRequest) (*models.CheckoutSession, error) {
	method := req.Method
	if method == "" {
		method = "card"
	}

	session, err := s.checkout.CreateCheckoutSession(
		"Database hosting",
		fmt.Sprintf("Registry database hosting ($%.2f)", req.Amount),
		req.Amount,
		map[string]string{"payment_type": models.PaymentTypeDatabase},
	)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		PaymentType: models.PaymentTypeDatabase,
		Amount:      req.Amount,
		Method:      method,
		Status:      models.PaymentStatusPending,
		Reference:   session.ID,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}

	return &models.CheckoutSession{
		ID:        session.ID,
		URL:       session.URL,
		Reference: session.ID,
		Status:    models.PaymentStatusPending,
	}, nil
}

// DatabaseStatus reports the most recent hosting payment, if any.
func (s *PaymentService) DatabaseStatus() (map[string]interface{}, error) {
	payment, err := s.payments.GetLatestByType(models.PaymentTypeDatabase)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]interface{}{"active": false}, nil
		}
		return nil, err
	}

	return map[string]interface{}{
		"active":  payment.Status == models.PaymentStatusCompleted,
		"payment": payment,
	}, nil
}

func (s *PaymentService) History() ([]models.Payment, error) {
	return s.payments.GetHistory()
}

// HandleWebhook completes payments on checkout.session.completed events.
func (s *PaymentService) HandleWebhook(event *stripe.Event) error {
	if event.Type != "checkout.session.completed" {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to decode checkout session: %w", err)
	}

	if _, err := s.VerifyPayment(session.ID); err != nil {
		return err
	}
	return nil
}

func (s *PaymentService) applyLimitMetadata(metadata map[string]string) error {
	var memberLimit, certLimit *int
	if raw, ok := metadata["member_limit"]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid member_limit metadata: %w", err)
		}
		memberLimit = &v
	}
	if raw, ok := metadata["certificate_limit"]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid certificate_limit metadata: %w", err)
		}
		certLimit = &v
	}

	if memberLimit == nil && certLimit == nil {
		return nil
	}
	_, err := s.limits.IncreaseLimits(memberLimit, certLimit)
	return err
}

func describeIncrease(req models.IncreaseLimitsRequest) string {
	switch {
	case req.MemberLimit != nil && req.CertificateLimit != nil:
		return fmt.Sprintf("Member limit to %d, certificate limit to %d", *req.MemberLimit, *req.CertificateLimit)
	case req.MemberLimit != nil:
		return fmt.Sprintf("Member limit to %d", *req.MemberLimit)
	default:
		return fmt.Sprintf("Certificate limit to %d", *req.CertificateLimit)
	}
}
