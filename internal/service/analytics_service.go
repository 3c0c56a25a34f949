package service

import (
	"github.com/procert/registry-backend/internal/models"
)

// RegistryCounters is the read-only counting surface the summary needs.
type RegistryCounters interface {
	CountAll() (int64, error)
	CountActive() (int64, error)
	CountCardGenerated() (int64, error)
}

type CertificateCounters interface {
	CountAll() (int64, error)
	CountByStatus(status string) (int64, error)
}

type PaymentCounters interface {
	CountAll() (int64, error)
}

// AnalyticsSummary is the admin dashboard's headline numbers.
type AnalyticsSummary struct {
	TotalMembers        int64 `json:"totalMembers"`
	ActiveMembers       int64 `json:"activeMembers"`
	CardsGenerated      int64 `json:"cardsGenerated"`
	TotalCertificates   int64 `json:"totalCertificates"`
	ActiveCertificates  int64 `json:"activeCertificates"`
	RevokedCertificates int64 `json:"revokedCertificates"`
	ExpiredCertificates int64 `json:"expiredCertificates"`
	TotalPayments       int64 `json:"totalPayments"`
}

type AnalyticsService struct {
	members  RegistryCounters
	certs    CertificateCounters
	payments PaymentCounters
}

func NewAnalyticsService(members RegistryCounters, certs CertificateCounters, payments PaymentCounters) *AnalyticsService {
	return &AnalyticsService{
		members:  members,
		certs:    certs,
		payments: payments,
	}
}

func (s *AnalyticsService) Summary() (*AnalyticsSummary, error) {
	summary := &AnalyticsSummary{}

	var err error
	if summary.TotalMembers, err = s.members.CountAll(); err != nil {
		return nil, err
	}
	if summary.ActiveMembers, err = s.members.CountActive(); err != nil {
		return nil, err
	}
	if summary.CardsGenerated, err = s.members.CountCardGenerated(); err != nil {
		return nil, err
	}
	if summary.TotalCertificates, err = s.certs.CountAll(); err != nil {
		return nil, err
	}
	if summary.ActiveCertificates, err = s.certs.CountByStatus(models.CertificateStatusActive); err != nil {
		return nil, err
	}
	if summary.RevokedCertificates, err = s.certs.CountByStatus(models.CertificateStatusRevoked); err != nil {
		return nil, err
	}
	if summary.ExpiredCertificates, err = s.certs.CountByStatus(models.CertificateStatusExpired); err != nil {
		return nil, err
	}
	if summary.TotalPayments, err = s.payments.CountAll(); err != nil {
		return nil, err
	}

	return summary, nil
}
