package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
)

// MemberCounter counts members that occupy capacity.
type MemberCounter interface {
	CountActive() (int64, error)
}

// CertificateCounter counts certificates that occupy capacity.
type CertificateCounter interface {
	CountLive() (int64, error)
}

// LimitsStore persists the singleton ceiling row.
type LimitsStore interface {
	Get() (*models.SystemLimits, error)
	Create(limits *models.SystemLimits) error
	Update(limits *models.SystemLimits) error
}

// LimitsService enforces the registry's capacity ceilings. Checks fail
// open: a database error never blocks a legitimate create, at the cost of
// allowing over-capacity additions during an outage. That trade-off is a
// product decision, not an oversight.
type LimitsService struct {
	limits  LimitsStore
	members MemberCounter
	certs   CertificateCounter
	logger  *zap.SugaredLogger
}

func NewLimitsService(limits LimitsStore, members MemberCounter, certs CertificateCounter, logger *zap.SugaredLogger) *LimitsService {
	return &LimitsService{
		limits:  limits,
		members: members,
		certs:   certs,
		logger:  logger,
	}
}

// ensure returns the ceiling row, creating it on first use seeded to the
// current live counts. Seeding freezes growth until an admin raises the
// ceiling through the increase-limits flow.
func (s *LimitsService) ensure() (*models.SystemLimits, error) {
	limits, err := s.limits.Get()
	if err == nil {
		return limits, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	memberCount, err := s.members.CountActive()
	if err != nil {
		return nil, err
	}
	certCount, err := s.certs.CountLive()
	if err != nil {
		return nil, err
	}

	limits = &models.SystemLimits{
		MemberLimit:      int(memberCount),
		CertificateLimit: int(certCount),
		IsActive:         true,
	}
	if err := s.limits.Create(limits); err != nil {
		return nil, err
	}

	s.logger.Infow("seeded system limits from live counts",
		"memberLimit", limits.MemberLimit, "certificateLimit", limits.CertificateLimit)
	return limits, nil
}

func failOpen(message string) *models.LimitCheck {
	return &models.LimitCheck{Allowed: true, Message: message}
}

func (s *LimitsService) CanAddMember() *models.LimitCheck {
	limits, err := s.ensure()
	if err != nil {
		s.logger.Warnw("member limit check failed open", "error", err)
		return failOpen("limit check unavailable")
	}
	if !limits.IsActive {
		return failOpen("limit enforcement disabled")
	}

	count, err := s.members.CountActive()
	if err != nil {
		s.logger.Warnw("member count failed open", "error", err)
		return failOpen("limit check unavailable")
	}

	return buildCheck(count, limits.MemberLimit, "Member limit reached. Complete a payment to increase the limit.")
}

func (s *LimitsService) CanAddCertificate() *models.LimitCheck {
	limits, err := s.ensure()
	if err != nil {
		s.logger.Warnw("certificate limit check failed open", "error", err)
		return failOpen("limit check unavailable")
	}
	if !limits.IsActive {
		return failOpen("limit enforcement disabled")
	}

	count, err := s.certs.CountLive()
	if err != nil {
		s.logger.Warnw("certificate count failed open", "error", err)
		return failOpen("limit check unavailable")
	}

	return buildCheck(count, limits.CertificateLimit, "Certificate limit reached. Complete a payment to increase the limit.")
}

func buildCheck(count int64, limit int, blockedMessage string) *models.LimitCheck {
	check := &models.LimitCheck{
		CurrentCount: count,
		Limit:        limit,
		Remaining:    int64(limit) - count,
	}
	if check.Remaining < 0 {
		check.Remaining = 0
	}

	if count >= int64(limit) {
		check.Allowed = false
		check.Message = blockedMessage
		return check
	}
	check.Allowed = true
	return check
}

// IncreaseLimits overwrites the ceiling fields that were provided. Unlike
// the checks this does not fail open; raising a ceiling must be durable.
func (s *LimitsService) IncreaseLimits(newMemberLimit, newCertificateLimit *int) (*models.SystemLimits, error) {
	limits, err := s.ensure()
	if err != nil {
		return nil, err
	}

	if newMemberLimit != nil {
		limits.MemberLimit = *newMemberLimit
	}
	if newCertificateLimit != nil {
		limits.CertificateLimit = *newCertificateLimit
	}

	if err := s.limits.Update(limits); err != nil {
		return nil, err
	}

	s.logger.Infow("limits updated",
		"memberLimit", limits.MemberLimit, "certificateLimit", limits.CertificateLimit)
	return limits, nil
}

// Current returns the ceiling row for the limits-status endpoint.
func (s *LimitsService) Current() (*models.SystemLimits, error) {
	return s.ensure()
}
