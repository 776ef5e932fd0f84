package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// SettingsUseCase preferencias del negocio y operaciones destructivas (reinicio de datos, baja).
type SettingsUseCase struct {
	repos    repository.Repositories
	tx       repository.TxRunner
	activity *ActivityLogUseCase
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repos repository.Repositories, tx repository.TxRunner, activity *ActivityLogUseCase) *SettingsUseCase {
	return &SettingsUseCase{repos: repos, tx: tx, activity: activity}
}

// Get devuelve las preferencias o los valores por defecto si el negocio aún no guardó ninguna.
func (uc *SettingsUseCase) Get(ctx context.Context, businessID string) (*dto.SettingsResponse, error) {
	s, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	out := toSettingsResponse(s)
	return &out, nil
}

// Load devuelve la entidad (o la predeterminada).
func (uc *SettingsUseCase) load(ctx context.Context, businessID string) (*entity.CompanySettings, error) {
	s, err := uc.repos.Settings.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return entity.DefaultSettings(businessID), nil
	}
	return s, nil
}

// Update aplica los campos presentes y guarda (upsert).
func (uc *SettingsUseCase) Update(ctx context.Context, actor Actor, businessID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	s, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if in.DefaultTaxType != nil {
		t, ok := tax.Parse(*in.DefaultTaxType)
		if !ok {
			return nil, domain.NewValidationError("defaultTaxType", "과세 구분이 올바르지 않습니다")
		}
		s.DefaultTaxType = t
	}
	s.BankName = trimOr(in.BankName, s.BankName)
	s.BankAccount = trimOr(in.BankAccount, s.BankAccount)
	s.AccountHolder = trimOr(in.AccountHolder, s.AccountHolder)
	if in.StatementNote != nil {
		s.StatementNote = *in.StatementNote
	}
	if in.NotifyOnSign != nil {
		s.NotifyOnSign = *in.NotifyOnSign
	}
	s.UpdatedAt = time.Now()
	if err := uc.repos.Settings.Upsert(ctx, s); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionUpdate, EntitySettings, businessID, "환경설정 변경")
	out := toSettingsResponse(s)
	return &out, nil
}

// ResetData borra ventas, compras, pagos, clientes, productos y notas del negocio en una transacción.
func (uc *SettingsUseCase) ResetData(ctx context.Context, actor Actor, businessID, password string) error {
	if _, err := uc.confirmPassword(ctx, actor.UserID, password); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Maintenance.PurgeBusinessData(ctx, businessID); err != nil {
			return fmt.Errorf("reiniciar datos: %w", err)
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionReset, EntityBusiness, businessID, "데이터 초기화"))
	})
	if err != nil {
		return err
	}
	logger.Security(logger.EventDataReset).
		Str("user_id", actor.UserID).
		Str("business_id", businessID).
		Str("ip", actor.IP).
		Msg("datos del negocio reiniciados")
	return nil
}

// DeleteAccount borra al usuario, sus negocios y todos sus datos en una transacción.
func (uc *SettingsUseCase) DeleteAccount(ctx context.Context, actor Actor, password string) error {
	user, err := uc.confirmPassword(ctx, actor.UserID, password)
	if err != nil {
		return err
	}
	if user.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		return repos.Maintenance.DeleteUserAccount(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("eliminar cuenta: %w", err)
	}
	logger.Security(logger.EventAccountDeleted).
		Str("user_id", user.ID).
		Str("ip", actor.IP).
		Msg("cuenta eliminada")
	return nil
}

func (uc *SettingsUseCase) confirmPassword(ctx context.Context, userID, password string) (*entity.User, error) {
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func toSettingsResponse(s *entity.CompanySettings) dto.SettingsResponse {
	out := dto.SettingsResponse{
		BusinessID:     s.BusinessID,
		DefaultTaxType: string(s.DefaultTaxType),
		BankName:       s.BankName,
		BankAccount:    s.BankAccount,
		AccountHolder:  s.AccountHolder,
		StatementNote:  s.StatementNote,
		NotifyOnSign:   s.NotifyOnSign,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
