package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uranusgroup/uranus-web/internal/application/workflow"
)

var _ workflow.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunWorkflow inicia una transacción, ejecuta fn con los repositorios del flujo atados a la tx
// y hace Commit o Rollback. Las notificaciones usan savepoints propios dentro de esta tx.
func (r *TxRunner) RunWorkflow(ctx context.Context, fn func(repos workflow.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := workflow.Repos{
		Users:         NewUserRepository(tx),
		Requests:      NewServiceRequestRepository(tx),
		Tickets:       NewTicketRepository(tx),
		Notifications: NewNotificationRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
