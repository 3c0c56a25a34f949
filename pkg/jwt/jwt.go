package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry is used when the configured expiry is unparsable.
const DefaultExpiry = 24 * time.Hour

// Manager issues and validates the registry's admin tokens.
type Manager struct {
	secret []byte
	expiry time.Duration
}

func NewManager(secret, expire string) *Manager {
	expiry := DefaultExpiry
	if d, err := time.ParseDuration(expire); err == nil {
		expiry = d
	}
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// GenerateToken issues a signed admin token carrying email and role.
func (m *Manager) GenerateToken(email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email":     email,
		"sub":       email,
		"role":      role,
		"timestamp": now.Unix(),
		"iat":       now.Unix(),
		"exp":       now.Add(m.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
