package auth_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizledger-api/internal/application/auth"
	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizledger-api/pkg/jwt"
	pkgredis "github.com/jhoicas/bizledger-api/pkg/redis"
)

var tokenCfg = auth.TokenConfig{
	AccessSecret:  "access-secret-for-tests",
	RefreshSecret: "refresh-secret-for-tests",
	AccessTTL:     time.Hour,
	RefreshTTL:    24 * time.Hour,
	Issuer:        "bizledger-test",
}

func newAuth(t *testing.T, opts ...auth.Option) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	uc := auth.NewAuthUseCase(repos, memory.NewTxRunner(store), tokenCfg, usecase.NewNotificationUseCase(repos.Notifications), opts...)
	return uc, store
}

func signupRequest(email, bizNo string) dto.SignupRequest {
	return dto.SignupRequest{
		Email:    email,
		Password: "password123",
		Name:     "김사장",
		Business: dto.CreateBusinessRequest{Name: "한빛상사", BusinessNumber: bizNo},
	}
}

// captureLog redirige el logger global de zerolog durante el test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestSignup_CreaUsuarioNegocioYTokens(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	res, err := uc.Signup(ctx, signupRequest("Owner@Example.com ", "220-81-62517"), "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", res.User.Email)
	assert.Equal(t, "admin", res.User.Role)
	require.Len(t, res.Businesses, 1)
	assert.True(t, res.Businesses[0].CheckDigitValid)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)

	claims, err := jwt.Parse(tokenCfg.AccessSecret, res.Tokens.AccessToken, jwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	unread, err := store.Repositories().Notifications.CountUnread(ctx, res.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread, "notificación de bienvenida")
}

func TestSignup_Duplicados(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	_, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)

	_, err = uc.Signup(ctx, signupRequest("a@example.com", "123-45-67890"), "")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Signup(ctx, signupRequest("b@example.com", "220-81-62517"), "")
	assert.ErrorIs(t, err, domain.ErrBusinessNumberUsed)

	u, err := store.Repositories().Users.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, u, "la transacción deshace el usuario")
}

func TestLogin_ContraseñaIncorrecta_MensajeGenericoYLog(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)

	buf := captureLog(t)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "wrong-password"}, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Contains(t, buf.String(), `"event_type":"auth_failure"`)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "password123"}, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "email desconocido y contraseña incorrecta son indistinguibles")
}

func TestLogin_EmailDesconocido_MismoCosteBcrypt(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	_, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)
	known, err := store.Repositories().Users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	userCost, err := bcrypt.Cost([]byte(known.PasswordHash))
	require.NoError(t, err)

	var hashes [][]byte
	restore := auth.SetCompareHash(func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	})
	defer restore()

	tests := []struct {
		name  string
		email string
	}{
		{"email conocido", "a@example.com"},
		{"email desconocido", "nobody@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(hashes)
			_, err := uc.Login(ctx, dto.LoginRequest{Email: tt.email, Password: "wrong-password"}, "10.0.0.1")
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			require.Len(t, hashes, before+1)
			cost, err := bcrypt.Cost(hashes[before])
			require.NoError(t, err)
			assert.Equal(t, userCost, cost)
		})
	}
}

func TestLogin_Correcto(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "A@example.com", Password: "password123"}, "")
	require.NoError(t, err)
	assert.NotNil(t, res.User.LastLoginAt)
	assert.Len(t, res.Businesses, 1)
}

func TestRefresh_RotaSesion(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := pkgredis.New("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	uc, _ := newAuth(t, auth.WithSessions(pkgredis.NewSessionStore(client)))
	ctx := context.Background()
	res, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)

	rotated, err := uc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	_, err = uc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un refresh ya rotado no se puede reutilizar")

	require.NoError(t, uc.Logout(ctx, rotated.Tokens.RefreshToken))
	_, err = uc.Refresh(ctx, rotated.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_AccessTokenNoSirve(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	res, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	res, err := uc.Signup(ctx, signupRequest("a@example.com", "220-81-62517"), "")
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, res.User.ID, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, uc.ChangePassword(ctx, res.User.ID, dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "newpassword1"}, "")
	assert.NoError(t, err)
}
