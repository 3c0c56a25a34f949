package service

import (
	"errors"
	"fmt"

	"github.com/procert/registry-backend/internal/models"
)

var (
	ErrAlreadyRevoked  = errors.New("certificate is already revoked")
	ErrNotRevoked      = errors.New("certificate is not revoked")
	ErrDuplicateCode   = errors.New("member code already exists")
	ErrDuplicateEmail  = errors.New("email already in use")
	ErrDuplicateNumber = errors.New("certificate number already exists")
)

// LimitReachedError blocks a create once the capacity ceiling is hit.
// Handlers translate it into the structured 429 envelope.
type LimitReachedError struct {
	Entity string // "member" or "certificate"
	Check  *models.LimitCheck
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("%s limit reached (%d/%d)", e.Entity, e.Check.CurrentCount, e.Check.Limit)
}

// ErrorCode returns the machine-readable code for the 429 envelope.
func (e *LimitReachedError) ErrorCode() string {
	if e.Entity == "member" {
		return "MEMBER_LIMIT_REACHED"
	}
	return "CERTIFICATE_LIMIT_REACHED"
}
