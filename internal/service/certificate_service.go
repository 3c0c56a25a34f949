package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
)

// CertificateStore is the persistence surface the lifecycle needs.
type CertificateStore interface {
	Create(cert *models.Certificate) error
	GetByID(id uint) (*models.Certificate, error)
	GetByNumber(number string) (*models.Certificate, error)
	GetAll() ([]models.Certificate, error)
	Update(cert *models.Certificate) error
	Delete(id uint) error
	BulkDelete(ids []uint, numbers []string) (int64, error)
}

// CertificateLimiter gates new certificate creation.
type CertificateLimiter interface {
	CanAddCertificate() *models.LimitCheck
}

// RevocationMailer notifies recipients when their certificate is revoked.
type RevocationMailer interface {
	SendRevocationNotice(to, number, recipient, reason string) error
}

type CertificateService struct {
	certs   CertificateStore
	limiter CertificateLimiter
	mailer  RevocationMailer
	logger  *zap.SugaredLogger
}

func NewCertificateService(certs CertificateStore, limiter CertificateLimiter, mailer RevocationMailer, logger *zap.SugaredLogger) *CertificateService {
	return &CertificateService{
		certs:   certs,
		limiter: limiter,
		mailer:  mailer,
		logger:  logger,
	}
}

// Issue upserts a certificate by its uppercased number. An existing
// certificate with that number has its fields overwritten; only a brand
// new certificate is checked against the capacity ceiling.
func (s *CertificateService) Issue(req models.IssueCertificateRequest) (*models.Certificate, bool, error) {
	number := strings.ToUpper(strings.TrimSpace(req.Number))

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	existing, err := s.certs.GetByNumber(number)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err == nil {
		existing.CertificateNumber = number
		existing.RecipientName = req.RecipientName
		existing.Email = req.Email
		existing.Title = req.Title
		if req.CertType != "" {
			existing.CertType = req.CertType
		}
		existing.Description = req.Description
		existing.IssueDate = issueDate
		existing.ValidUntil = req.ValidUntil
		existing.MemberID = req.MemberID

		if err := s.certs.Update(existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	check := s.limiter.CanAddCertificate()
	if !check.Allowed {
		return nil, false, &LimitReachedError{Entity: "certificate", Check: check}
	}

	certType := req.CertType
	if certType == "" {
		certType = models.CertificateTypeMembership
	}

	cert := &models.Certificate{
		Number:            number,
		CertificateNumber: number,
		RecipientName:     req.RecipientName,
		Email:             req.Email,
		Title:             req.Title,
		CertType:          certType,
		Description:       req.Description,
		IssueDate:         issueDate,
		ValidUntil:        req.ValidUntil,
		Status:            models.CertificateStatusActive,
		MemberID:          req.MemberID,
		SerialNumber:      uuid.NewString(),
	}

	if err := s.certs.Create(cert); err != nil {
		return nil, false, err
	}
	return cert, true, nil
}

// Revoke marks a certificate revoked with audit metadata. A second revoke
// fails and leaves the first revoke's audit fields untouched.
func (s *CertificateService) Revoke(id uint, reason, revokedBy string) (*models.Certificate, error) {
	cert, err := s.certs.GetByID(id)
	if err != nil {
		return nil, err
	}

	if cert.Status == models.CertificateStatusRevoked {
		return nil, ErrAlreadyRevoked
	}

	now := time.Now()
	cert.Status = models.CertificateStatusRevoked
	cert.RevokedAt = &now
	cert.RevokedBy = revokedBy
	cert.RevokedReason = reason

	if err := s.certs.Update(cert); err != nil {
		return nil, err
	}

	// Best effort: a failed notice never rolls back the revocation.
	if s.mailer != nil && cert.Email != "" {
		if err := s.mailer.SendRevocationNotice(cert.Email, cert.Number, cert.RecipientName, reason); err != nil {
			s.logger.Warnw("revocation notice failed", "number", cert.Number, "error", err)
		}
	}

	return cert, nil
}

// Restore reactivates a revoked certificate and clears its audit fields.
// Capacity is not re-checked; revocation is treated as a soft, reversible
// action exempt from the ceiling.
func (s *CertificateService) Restore(id uint) (*models.Certificate, error) {
	cert, err := s.certs.GetByID(id)
	if err != nil {
		return nil, err
	}

	if cert.Status != models.CertificateStatusRevoked {
		return nil, ErrNotRevoked
	}

	cert.Status = models.CertificateStatusActive
	cert.RevokedAt = nil
	cert.RevokedBy = ""
	cert.RevokedReason = ""

	if err := s.certs.Update(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// Verify looks up a certificate by number, case-insensitively. An active
// certificate whose validity window has elapsed is flipped to expired and
// persisted before being returned.
func (s *CertificateService) Verify(number string) (*models.Certificate, error) {
	cert, err := s.certs.GetByNumber(strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, err
	}

	if cert.Status == models.CertificateStatusActive && cert.ValidUntil != nil && cert.ValidUntil.Before(time.Now()) {
		cert.Status = models.CertificateStatusExpired
		if err := s.certs.Update(cert); err != nil {
			return nil, err
		}
	}

	return cert, nil
}

func (s *CertificateService) GetAll() ([]models.Certificate, error) {
	return s.certs.GetAll()
}

func (s *CertificateService) GetByID(id uint) (*models.Certificate, error) {
	return s.certs.GetByID(id)
}

func (s *CertificateService) Delete(id uint) error {
	if _, err := s.certs.GetByID(id); err != nil {
		return err
	}
	return s.certs.Delete(id)
}

// BulkDelete normalizes the request's current and legacy shapes into one
// delete. Certificates carry no blob attachments, so there is no storage
// cleanup to do.
func (s *CertificateService) BulkDelete(req models.BulkDeleteCertificatesRequest) (int64, error) {
	numbers := req.AllNumbers()
	for i, n := range numbers {
		numbers[i] = strings.ToUpper(strings.TrimSpace(n))
	}
	return s.certs.BulkDelete(req.AllIDs(), numbers)
}
