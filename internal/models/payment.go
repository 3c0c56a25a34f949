package models

import "time"

// Payment types.
const (
	PaymentTypeIDCard      = "idcard"
	PaymentTypeCertificate = "certificate"
	PaymentTypeDatabase    = "database"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is an append-only ledger record; only Status changes after creation.
type Payment struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	PaymentType string            `json:"paymentType" gorm:"not null"`
	Amount      float64           `json:"amount" gorm:"not null"`
	Method      string            `json:"method" gorm:"not null;default:'card'"`
	Status      string            `json:"status" gorm:"not null;default:'pending'"`
	Reference   string            `json:"reference" gorm:"uniqueIndex;not null"`
	Metadata    map[string]string `json:"metadata,omitempty" gorm:"type:json;serializer:json"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type IncreaseLimitsRequest struct {
	MemberLimit      *int    `json:"memberLimit"`
	CertificateLimit *int    `json:"certificateLimit"`
	Amount           float64 `json:"amount"`
}

type VerifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type DatabaseHostingRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method"`
}

type CheckoutSession struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
