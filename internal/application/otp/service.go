// Package otp emite y verifica códigos de un solo uso enviados por Alimtalk/SMS.
package otp

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

const (
	CodeTTL     = 3 * time.Minute
	MaxSends    = 5 // por teléfono en SendWindow
	SendWindow  = 24 * time.Hour
	MaxAttempts = 5
	codeDigits  = 6
	codeModulus = 1_000_000
)

// Service emite y verifica códigos. Solo se guarda el HMAC-SHA256 del código con el secreto de sesión.
type Service struct {
	repo      repository.OTPRepository
	messenger ports.MessageSender
	secret    []byte
	now       func() time.Time
	generate  func() (string, error)
}

// NewService construye el servicio.
func NewService(repo repository.OTPRepository, messenger ports.MessageSender, secret string) *Service {
	return &Service{repo: repo, messenger: messenger, secret: []byte(secret), now: time.Now, generate: randomCode}
}

// Send genera un código, lo guarda y lo entrega. Más de MaxSends en 24h devuelve ErrOTPSendLimit.
func (s *Service) Send(ctx context.Context, in dto.OTPSendRequest) (*dto.OTPSendResponse, error) {
	phone := normalizePhone(in.Phone)
	now := s.now()
	sent, err := s.repo.CountSince(ctx, phone, now.Add(-SendWindow))
	if err != nil {
		return nil, err
	}
	if sent >= MaxSends {
		logger.Security(logger.EventOTPFailure).Str("phone", maskPhone(phone)).Msg("límite diario de envíos OTP")
		return nil, domain.ErrOTPSendLimit
	}
	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("otp: generar código: %w", err)
	}
	o := &entity.OTP{
		ID:        uuid.New().String(),
		Phone:     phone,
		Purpose:   in.Purpose,
		CodeHash:  s.hash(phone, in.Purpose, code),
		ExpiresAt: now.Add(CodeTTL),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	delivered, err := s.messenger.Send(ctx, phone, ports.TemplateMessage{
		Template: ports.TemplateOTP,
		Vars:     map[string]string{"code": code, "minutes": "3"},
		Text:     fmt.Sprintf("[인증번호] %s (3분 이내 입력)", code),
	})
	if err != nil {
		return nil, fmt.Errorf("otp: envío: %w", err)
	}
	return &dto.OTPSendResponse{ExpiresAt: o.ExpiresAt, Delivered: delivered}, nil
}

// Verify comprueba el último código del teléfono y propósito.
func (s *Service) Verify(ctx context.Context, in dto.OTPVerifyRequest) error {
	phone := normalizePhone(in.Phone)
	o, err := s.repo.Latest(ctx, phone, in.Purpose)
	if err != nil {
		return err
	}
	now := s.now()
	if o == nil || o.Expired(now) {
		return domain.ErrOTPExpired
	}
	// El intento se consume antes de comparar: verificaciones concurrentes no pasan de MaxAttempts.
	attempts, err := s.repo.IncrementAttempts(ctx, o.ID, MaxAttempts)
	if err != nil {
		return err
	}
	expected, err := hex.DecodeString(o.CodeHash)
	if err != nil {
		return fmt.Errorf("otp: hash corrupto: %w", err)
	}
	got, _ := hex.DecodeString(s.hash(phone, in.Purpose, strings.TrimSpace(in.Code)))
	if !hmac.Equal(expected, got) {
		logger.Security(logger.EventOTPFailure).
			Str("phone", maskPhone(phone)).
			Str("purpose", in.Purpose).
			Int("attempts", attempts).
			Msg("código OTP incorrecto")
		return domain.ErrOTPMismatch
	}
	return s.repo.MarkVerified(ctx, o.ID, now)
}

func (s *Service) hash(phone, purpose, code string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(phone + "|" + purpose + "|" + code))
	return hex.EncodeToString(mac.Sum(nil))
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeModulus))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// normalizePhone deja solo dígitos (010-1234-5678 -> 01012345678).
func normalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func maskPhone(p string) string {
	if len(p) < 4 {
		return "****"
	}
	return strings.Repeat("*", len(p)-4) + p[len(p)-4:]
}
