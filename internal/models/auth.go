package models

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

// AdminUser is the authenticated identity carried in the JWT. The registry
// has a single admin account configured through the environment.
type AdminUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
