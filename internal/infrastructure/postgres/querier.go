package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repositorios funcionan con cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepositories arma el conjunto de repositorios sobre q (pool o transacción).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Users:         NewUserRepository(q),
		Businesses:    NewBusinessRepository(q),
		Customers:     NewCustomerRepository(q),
		Products:      NewProductRepository(q),
		Sales:         NewSaleRepository(q),
		Purchases:     NewPurchaseRepository(q),
		Payments:      NewPaymentRepository(q),
		Notifications: NewNotificationRepository(q),
		ActivityLogs:  NewActivityLogRepository(q),
		OTPs:          NewOTPRepository(q),
		Settings:      NewSettingsRepository(q),
		Notes:         NewNoteRepository(q),
		Reports:       NewReportRepository(q),
		Maintenance:   NewMaintenanceRepository(q),
	}
}
