package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/pkg/jwt"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// compareHash verifica una contraseña contra su hash bcrypt.
var compareHash = bcrypt.CompareHashAndPassword

var (
	fallbackOnce sync.Once
	fallback     []byte
)

// fallbackHash hash con el mismo coste que los de usuarios; se compara contra él cuando el email no existe.
func fallbackHash() []byte {
	fallbackOnce.Do(func() {
		fallback, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	})
	return fallback
}

// TokenConfig secretos y duración de los tokens emitidos.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// SessionStore sesiones de refresh (Redis). Opcional: sin store el refresh solo valida la firma.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Verify(ctx context.Context, sessionID, userID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// AuthUseCase registro, login, rotación de tokens y perfil propio.
type AuthUseCase struct {
	repos         repository.Repositories
	tx            repository.TxRunner
	tokens        TokenConfig
	sessions      SessionStore
	messenger     ports.MessageSender
	storage       ports.FileStorage
	notifications *usecase.NotificationUseCase
}

// Option configura dependencias opcionales.
type Option func(*AuthUseCase)

// WithSessions activa la verificación y rotación de sesiones de refresh.
func WithSessions(s SessionStore) Option { return func(uc *AuthUseCase) { uc.sessions = s } }

// WithMessenger activa el Alimtalk de bienvenida.
func WithMessenger(m ports.MessageSender) Option { return func(uc *AuthUseCase) { uc.messenger = m } }

// WithStorage permite subir avatares.
func WithStorage(s ports.FileStorage) Option { return func(uc *AuthUseCase) { uc.storage = s } }

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repos repository.Repositories, tx repository.TxRunner, tokens TokenConfig, notifications *usecase.NotificationUseCase, opts ...Option) *AuthUseCase {
	uc := &AuthUseCase{repos: repos, tx: tx, tokens: tokens, notifications: notifications}
	for _, o := range opts {
		o(uc)
	}
	fallbackHash()
	return uc
}

// Signup crea el admin y su primer negocio en una transacción y emite los tokens.
// Devuelve ErrEmailAlreadyExists o ErrBusinessNumberUsed (409).
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest, ip string) (*dto.AuthResult, error) {
	email := normalizeEmail(in.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	business := usecase.NewBusinessEntity(user.ID, in.Business)

	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := usecase.EnsureBusinessNumberFree(ctx, repos.Businesses, business.BusinessNumber, ""); err != nil {
			return err
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return duplicateAs(err, domain.ErrEmailAlreadyExists)
		}
		if err := repos.Businesses.Create(ctx, business); err != nil {
			return duplicateAs(err, domain.ErrBusinessNumberUsed)
		}
		actor := usecase.Actor{UserID: user.ID, Role: user.Role, IP: ip}
		return repos.ActivityLogs.Create(ctx, &entity.ActivityLog{
			ID: uuid.New().String(), UserID: user.ID, BusinessID: business.ID, Action: entity.ActionCreate,
			EntityType: usecase.EntityBusiness, EntityID: business.ID, Description: "회원가입: " + business.Name,
			IP: actor.IP, CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	tokens, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.notifications.Notify(ctx, user.ID, business.ID, entity.NotificationWelcome, "환영합니다",
		fmt.Sprintf("%s 님, %s 사업장이 등록되었습니다.", user.Name, business.Name), "/dashboard")
	uc.sendWelcome(ctx, user, business)

	return &dto.AuthResult{
		User:       usecase.ToUserResponse(user),
		Businesses: []dto.BusinessResponse{usecase.ToBusinessResponse(business)},
		Tokens:     tokens,
	}, nil
}

func (uc *AuthUseCase) sendWelcome(ctx context.Context, user *entity.User, business *entity.Business) {
	if uc.messenger == nil || user.Phone == "" {
		return
	}
	msg := ports.TemplateMessage{
		Template: ports.TemplateWelcome,
		Vars:     map[string]string{"name": user.Name, "business": business.Name},
		Text:     fmt.Sprintf("%s 님, 가입을 환영합니다. 사업장: %s", user.Name, business.Name),
	}
	if _, err := uc.messenger.Send(ctx, user.Phone, msg); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo enviar el Alimtalk de bienvenida")
	}
}

// Login verifica credenciales. Email desconocido y contraseña incorrecta devuelven el mismo
// ErrInvalidCredentials; ambos quedan registrados como auth_failure.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip string) (*dto.AuthResult, error) {
	email := normalizeEmail(in.Email)
	user, err := uc.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	hash := fallbackHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if pwErr := compareHash(hash, []byte(in.Password)); user == nil || pwErr != nil {
		logger.Security(logger.EventAuthFailure).
			Str("email", email).
			Str("ip", ip).
			Bool("known_user", user != nil).
			Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Security(logger.EventAuthFailure).Str("user_id", user.ID).Str("ip", ip).Msg("login de usuario inactivo")
		return nil, domain.ErrInactiveUser
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := uc.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	tokens, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Security(logger.EventAuthSuccess).Str("user_id", user.ID).Str("ip", ip).Msg("login correcto")
	return uc.result(ctx, user, tokens)
}

// Refresh valida el refresh token, rota la sesión y emite un par nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResult, error) {
	claims, err := jwt.Parse(uc.tokens.RefreshSecret, refreshToken, jwt.TokenRefresh)
	if err != nil {
		logger.Security(logger.EventTokenInvalid).Err(err).Msg("refresh token inválido")
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if uc.sessions != nil {
		if err := uc.sessions.Verify(ctx, claims.ID, user.ID); err != nil {
			logger.Security(logger.EventTokenInvalid).Str("user_id", user.ID).Err(err).Msg("sesión de refresh no válida")
			return nil, domain.ErrUnauthorized
		}
		if err := uc.sessions.Revoke(ctx, claims.ID); err != nil {
			return nil, err
		}
	}
	tokens, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.result(ctx, user, tokens)
}

// Logout revoca la sesión del refresh token si es válido; nunca falla por un token inválido.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if uc.sessions == nil || refreshToken == "" {
		return nil
	}
	claims, err := jwt.Parse(uc.tokens.RefreshSecret, refreshToken, jwt.TokenRefresh)
	if err != nil {
		return nil
	}
	return uc.sessions.Revoke(ctx, claims.ID)
}

// Me devuelve el usuario autenticado con sus negocios.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.AuthResult, error) {
	user, err := uc.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.result(ctx, user, dto.TokenPair{})
}

// UpdateProfile cambia nombre y teléfono propios.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	user.UpdatedAt = time.Now()
	if err := uc.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	out := usecase.ToUserResponse(user)
	return &out, nil
}

// ChangePassword exige la contraseña actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		logger.Security(logger.EventAuthFailure).Str("user_id", user.ID).Msg("cambio de contraseña con contraseña actual incorrecta")
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.repos.Users.Update(ctx, user)
}

var avatarExt = map[string]string{"image/jpeg": ".jpg", "image/png": ".png"}

// UploadAvatar guarda una imagen JPEG o PNG y reemplaza el avatar anterior.
func (uc *AuthUseCase) UploadAvatar(ctx context.Context, userID string, data []byte) (*dto.UserResponse, error) {
	if uc.storage == nil {
		return nil, errors.New("auth: almacenamiento de archivos no configurado")
	}
	ext, ok := avatarExt[http.DetectContentType(data)]
	if !ok || bytes.HasPrefix(data, []byte("<")) {
		return nil, domain.ErrUnsupportedFile
	}
	user, err := uc.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	path, err := uc.storage.Save(ctx, "avatars", fmt.Sprintf("%s-%d%s", user.ID, time.Now().Unix(), ext), data)
	if err != nil {
		return nil, err
	}
	previous := user.AvatarURL
	user.AvatarURL = path
	user.UpdatedAt = time.Now()
	if err := uc.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	if previous != "" {
		if err := uc.storage.Remove(ctx, previous); err != nil {
			log.Warn().Err(err).Str("path", previous).Msg("no se pudo borrar el avatar anterior")
		}
	}
	out := usecase.ToUserResponse(user)
	return &out, nil
}

func (uc *AuthUseCase) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// issueTokens firma access + refresh; el refresh lleva un jti que se guarda como sesión.
func (uc *AuthUseCase) issueTokens(ctx context.Context, user *entity.User) (dto.TokenPair, error) {
	now := time.Now()
	sessionID := uuid.New().String()
	access, err := jwt.Generate(uc.tokens.AccessSecret, uc.tokens.Issuer, jwt.Payload{
		UserID: user.ID, BusinessID: user.BusinessID, Role: user.Role, Type: jwt.TokenAccess,
	}, uc.tokens.AccessTTL)
	if err != nil {
		return dto.TokenPair{}, err
	}
	refresh, err := jwt.Generate(uc.tokens.RefreshSecret, uc.tokens.Issuer, jwt.Payload{
		UserID: user.ID, BusinessID: user.BusinessID, Role: user.Role, Type: jwt.TokenRefresh, SessionID: sessionID,
	}, uc.tokens.RefreshTTL)
	if err != nil {
		return dto.TokenPair{}, err
	}
	if uc.sessions != nil {
		if err := uc.sessions.Save(ctx, sessionID, user.ID, uc.tokens.RefreshTTL); err != nil {
			return dto.TokenPair{}, fmt.Errorf("guardar sesión: %w", err)
		}
	}
	return dto.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(uc.tokens.AccessTTL),
		RefreshExpiresAt: now.Add(uc.tokens.RefreshTTL),
	}, nil
}

// result arma la respuesta con los negocios visibles para el usuario.
func (uc *AuthUseCase) result(ctx context.Context, user *entity.User, tokens dto.TokenPair) (*dto.AuthResult, error) {
	var businesses []*entity.Business
	switch user.Role {
	case entity.RoleAdmin:
		list, err := uc.repos.Businesses.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		businesses = list
	default:
		if user.BusinessID != "" {
			b, err := uc.repos.Businesses.GetByID(ctx, user.BusinessID)
			if err != nil {
				return nil, err
			}
			if b != nil && b.IsActive {
				businesses = append(businesses, b)
			}
		}
	}
	out := &dto.AuthResult{User: usecase.ToUserResponse(user), Tokens: tokens}
	for _, b := range businesses {
		out.Businesses = append(out.Businesses, usecase.ToBusinessResponse(b))
	}
	return out, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func duplicateAs(err, specific error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return specific
	}
	return err
}
