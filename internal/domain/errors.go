package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrBusinessNotFound   = errors.New("negocio no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrBusinessNumberUsed = errors.New("el número de registro ya está en uso")
	ErrCodeAlreadyExists  = errors.New("el código ya está en uso")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInactiveUser       = errors.New("usuario inactivo")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidSignature   = errors.New("la firma debe ser una imagen JPEG")
	ErrAlreadySigned      = errors.New("la venta ya está firmada")
	ErrOTPMismatch        = errors.New("código OTP incorrecto")
	ErrOTPExpired         = errors.New("código OTP expirado")
	ErrOTPTooManyAttempts = errors.New("demasiados intentos de OTP")
	ErrOTPSendLimit       = errors.New("límite diario de envíos OTP alcanzado")
	ErrUnsupportedFile    = errors.New("tipo de archivo no soportado")
)

// ValidationError errores por campo; Fields usa el nombre JSON del campo.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError crea un error con un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
