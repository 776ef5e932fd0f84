package repository

import "context"

// MaintenanceRepository borrados masivos. Debe ejecutarse dentro de TxRunner.Run.
type MaintenanceRepository interface {
	// PurgeBusinessData borra ventas, compras, pagos, clientes, productos y notas del negocio.
	PurgeBusinessData(ctx context.Context, businessID string) error
	// DeleteUserAccount borra el usuario, sus negocios con todos sus datos y sus usuarios asignados.
	DeleteUserAccount(ctx context.Context, userID string) error
}
