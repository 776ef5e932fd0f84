package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType distingue tokens de acceso y de refresh; un refresh nunca autentica una petición.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// ErrWrongTokenType el token es válido pero de otro tipo.
var ErrWrongTokenType = errors.New("jwt: tipo de token incorrecto")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role y BusinessID permiten al middleware decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string    `json:"user_id"`
	BusinessID string    `json:"business_id,omitempty"`
	Role       string    `json:"role"` // "admin" | "sales_viewer"
	Type       TokenType `json:"typ"`
}

// Payload datos de sesión a firmar. SessionID se usa como jti del refresh token.
type Payload struct {
	UserID     string
	BusinessID string
	Role       string
	Type       TokenType
	SessionID  string
}

// Generate genera un token JWT HS256 firmado con el payload y la duración indicada.
func Generate(secret, issuer string, p Payload, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if p.Type == "" {
		p.Type = TokenAccess
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.SessionID,
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:     p.UserID,
		BusinessID: p.BusinessID,
		Role:       p.Role,
		Type:       p.Type,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y exige el tipo indicado.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es de otro tipo.
func Parse(secret, tokenString string, want TokenType) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
