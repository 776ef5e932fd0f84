package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.MaintenanceRepository = (*MaintenanceRepo)(nil)

// MaintenanceRepo borrados masivos; el llamador los ejecuta dentro de TxRunner.Run.
type MaintenanceRepo struct {
	q Querier
}

func NewMaintenanceRepository(q Querier) *MaintenanceRepo {
	return &MaintenanceRepo{q: q}
}

// purgeStatements orden respetando claves foráneas (líneas caen por cascade).
var purgeStatements = []string{
	`DELETE FROM sales WHERE business_id = $1`,
	`DELETE FROM purchases WHERE business_id = $1`,
	`DELETE FROM payments WHERE business_id = $1`,
	`DELETE FROM customers WHERE business_id = $1`,
	`DELETE FROM products WHERE business_id = $1`,
	`DELETE FROM notes WHERE business_id = $1`,
}

func (r *MaintenanceRepo) PurgeBusinessData(ctx context.Context, businessID string) error {
	for _, stmt := range purgeStatements {
		if _, err := r.q.Exec(ctx, stmt, businessID); err != nil {
			return fmt.Errorf("purge business data: %w", err)
		}
	}
	return nil
}

// DeleteUserAccount borra los datos de cada negocio del usuario, sus sales_viewer y al propio usuario.
// businesses, notifications, notes y company_settings caen por ON DELETE CASCADE;
// el activity_logs que quede sin negocio conserva la fila con user_id NULL.
func (r *MaintenanceRepo) DeleteUserAccount(ctx context.Context, userID string) error {
	rows, err := r.q.Query(ctx, `SELECT id FROM businesses WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("list user businesses: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan business id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list user businesses: %w", err)
	}

	for _, id := range ids {
		if err := r.PurgeBusinessData(ctx, id); err != nil {
			return err
		}
		if _, err := r.q.Exec(ctx, `DELETE FROM activity_logs WHERE business_id = $1`, id); err != nil {
			return fmt.Errorf("delete activity logs: %w", err)
		}
		if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE business_id = $1`, id); err != nil {
			return fmt.Errorf("delete assigned users: %w", err)
		}
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
