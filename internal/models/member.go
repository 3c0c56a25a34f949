package models

import (
	"time"
)

// Member positions recognized by the registry.
const (
	PositionChairman    = "chairman"
	PositionSecretary   = "secretary"
	PositionTreasurer   = "treasurer"
	PositionCoordinator = "coordinator"
	PositionMember      = "member"
)

type Member struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Email         *string   `json:"email,omitempty" gorm:"uniqueIndex"`
	Password      string    `json:"-" gorm:"not null"`
	Code          string    `json:"code" gorm:"uniqueIndex;not null"`
	Position      string    `json:"position" gorm:"not null;default:'member'"`
	State         string    `json:"state" gorm:"not null"`
	Zone          string    `json:"zone" gorm:"not null"`
	PassportPhoto string    `json:"passportPhoto,omitempty"`
	Signature     string    `json:"signature,omitempty"`
	IsActive      bool      `json:"isActive" gorm:"default:true"`
	CardGenerated bool      `json:"cardGenerated" gorm:"default:false"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateMemberRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Code     string `json:"code" form:"code" validate:"required"`
	Position string `json:"position" form:"position" validate:"omitempty,oneof=chairman secretary treasurer coordinator member"`
	State    string `json:"state" form:"state" validate:"required"`
	Zone     string `json:"zone" form:"zone" validate:"required"`
}

type UpdateMemberRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"omitempty,min=6"`
	Position string `json:"position" form:"position" validate:"omitempty,oneof=chairman secretary treasurer coordinator member"`
	State    string `json:"state" form:"state"`
	Zone     string `json:"zone" form:"zone"`
	IsActive *bool  `json:"isActive" form:"isActive"`
}

type VerifyMemberRequest struct {
	Code string `json:"code" validate:"required"`
}

// MemberCard is the public shape returned by the member verification
// endpoint, with photo fields resolved to absolute URLs.
type MemberCard struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	Position         string    `json:"position"`
	State            string    `json:"state"`
	Zone             string    `json:"zone"`
	PassportPhotoURL string    `json:"passportPhotoUrl,omitempty"`
	SignatureURL     string    `json:"signatureUrl,omitempty"`
	CardGenerated    bool      `json:"cardGenerated"`
	CreatedAt        time.Time `json:"createdAt"`
}
