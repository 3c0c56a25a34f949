package models

import (
	"time"
)

// Certificate statuses.
const (
	CertificateStatusActive  = "active"
	CertificateStatusRevoked = "revoked"
	CertificateStatusExpired = "expired"
)

// Certificate types.
const (
	CertificateTypeMembership   = "membership"
	CertificateTypeAchievement  = "achievement"
	CertificateTypeTraining     = "training"
	CertificateTypeAppreciation = "appreciation"
)

type Certificate struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Number string `json:"number" gorm:"uniqueIndex;not null"`
	// Legacy mirror of Number, kept for older admin-panel builds.
	CertificateNumber string     `json:"certificateNumber" gorm:"not null"`
	RecipientName     string     `json:"recipientName" gorm:"not null"`
	Email             string     `json:"email,omitempty"`
	Title             string     `json:"title" gorm:"not null"`
	CertType          string     `json:"certType" gorm:"not null;default:'membership'"`
	Description       string     `json:"description"`
	IssueDate         time.Time  `json:"issueDate"`
	ValidUntil        *time.Time `json:"validUntil,omitempty"`
	Status            string     `json:"status" gorm:"not null;default:'active'"`
	RevokedAt         *time.Time `json:"revokedAt,omitempty"`
	RevokedBy         string     `json:"revokedBy,omitempty"`
	RevokedReason     string     `json:"revokedReason,omitempty"`
	MemberID          *uint      `json:"userId,omitempty" gorm:"column:user_id"`
	SerialNumber      string     `json:"serialNumber" gorm:"uniqueIndex;not null"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type IssueCertificateRequest struct {
	Number        string     `json:"number" validate:"required"`
	RecipientName string     `json:"recipientName" validate:"required"`
	Email         string     `json:"email" validate:"omitempty,email"`
	Title         string     `json:"title" validate:"required"`
	CertType      string     `json:"certType" validate:"omitempty,oneof=membership achievement training appreciation"`
	Description   string     `json:"description"`
	IssueDate     *time.Time `json:"issueDate"`
	ValidUntil    *time.Time `json:"validUntil"`
	MemberID      *uint      `json:"userId"`
}

type RevokeCertificateRequest struct {
	Reason    string `json:"reason" validate:"required"`
	RevokedBy string `json:"revokedBy"`
}

type VerifyCertificateRequest struct {
	Number string `json:"number" validate:"required"`
}

// BulkDeleteCertificatesRequest accepts both the current and the legacy
// field names the admin panel has used for bulk deletion.
type BulkDeleteCertificatesRequest struct {
	IDs                []uint   `json:"ids"`
	Numbers            []string `json:"numbers"`
	CertificateIDs     []uint   `json:"certificateIds"`
	CertificateNumbers []string `json:"certificateNumbers"`
}

// AllIDs merges the current and legacy id fields.
func (r *BulkDeleteCertificatesRequest) AllIDs() []uint {
	return append(append([]uint{}, r.IDs...), r.CertificateIDs...)
}

// AllNumbers merges the current and legacy number fields.
func (r *BulkDeleteCertificatesRequest) AllNumbers() []string {
	return append(append([]string{}, r.Numbers...), r.CertificateNumbers...)
}
