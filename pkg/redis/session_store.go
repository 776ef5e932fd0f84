package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshPrefix = "refresh:"

// ErrSessionNotFound la sesión de refresh no existe, expiró o fue revocada.
var ErrSessionNotFound = errors.New("redis: sesión no encontrada")

// SessionStore guarda las sesiones de refresh (jti -> userID) para poder rotarlas y revocarlas.
type SessionStore struct {
	client *Client
}

// NewSessionStore crea el store sobre un cliente ya conectado.
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save registra la sesión con la misma expiración que el refresh token.
func (s *SessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.client.rdb.Set(ctx, refreshPrefix+sessionID, userID, ttl).Err()
}

// Verify comprueba que la sesión exista y pertenezca al usuario.
func (s *SessionStore) Verify(ctx context.Context, sessionID, userID string) error {
	owner, err := s.client.rdb.Get(ctx, refreshPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrSessionNotFound
	}
	return nil
}

// Revoke elimina la sesión; revocar una sesión inexistente no es error.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	return s.client.rdb.Del(ctx, refreshPrefix+sessionID).Err()
}
