package repository

import "context"

// Repositories agrupa los puertos atados a una misma conexión (pool o transacción).
type Repositories struct {
	Users         UserRepository
	Businesses    BusinessRepository
	Customers     CustomerRepository
	Products      ProductRepository
	Sales         SaleRepository
	Purchases     PurchaseRepository
	Payments      PaymentRepository
	Notifications NotificationRepository
	ActivityLogs  ActivityLogRepository
	OTPs          OTPRepository
	Settings      SettingsRepository
	Notes         NoteRepository
	Reports       ReportRepository
	Maintenance   MaintenanceRepository
}

// TxRunner ejecuta fn con repositorios atados a una transacción; Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
