package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/procert/registry-backend/internal/config"
	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates the single configured admin account. There are
// no per-admin records, refresh tokens, or a revocation list; token
// validity is solely the signature and expiry.
type AuthService struct {
	admin  config.Admin
	tokens *jwt.Manager
}

func NewAuthService(admin config.Admin, tokens *jwt.Manager) *AuthService {
	return &AuthService{admin: admin, tokens: tokens}
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	emailOK := strings.EqualFold(strings.TrimSpace(req.Email), s.admin.Email)
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) == 1
	if !emailOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(s.admin.Email, "admin")
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User: models.AdminUser{
			Email: s.admin.Email,
			Role:  "admin",
		},
	}, nil
}
