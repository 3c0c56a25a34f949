package models

import "time"

// SystemLimits is a singleton row holding the registry's capacity ceilings.
// It is created lazily on the first limit check, seeded to the live counts
// at that moment.
type SystemLimits struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	MemberLimit      int       `json:"memberLimit" gorm:"not null"`
	CertificateLimit int       `json:"certificateLimit" gorm:"not null"`
	IsActive         bool      `json:"isActive" gorm:"default:true"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LimitCheck is the result of a capacity check.
type LimitCheck struct {
	Allowed      bool   `json:"allowed"`
	Message      string `json:"message,omitempty"`
	CurrentCount int64  `json:"currentCount"`
	Limit        int    `json:"limit"`
	Remaining    int64  `json:"remaining"`
}
