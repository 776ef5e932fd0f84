package dto

import "time"

// SignupRequest registro de un admin junto con su primer negocio.
type SignupRequest struct {
	Email    string                `json:"email" validate:"required,email,max=255"`
	Password string                `json:"password" validate:"required,min=8,max=72"`
	Name     string                `json:"name" validate:"required,min=1,max=100"`
	Phone    string                `json:"phone" validate:"omitempty,phone_kr"`
	Business CreateBusinessRequest `json:"business" validate:"required"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest el refresh token puede venir en cookie o en el cuerpo.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest cambios de perfil propios.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" validate:"omitempty,phone_kr"`
}

// ChangePasswordRequest cambio de contraseña con verificación de la actual.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	BusinessID  string     `json:"businessId,omitempty"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TokenPair tokens emitidos; el handler los envía como cookies HttpOnly.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthResult resultado de signup/login/refresh.
type AuthResult struct {
	User       UserResponse       `json:"user"`
	Businesses []BusinessResponse `json:"businesses,omitempty"`
	Tokens     TokenPair          `json:"-"`
}
