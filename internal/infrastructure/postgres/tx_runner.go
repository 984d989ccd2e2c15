package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/application/messaging"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ messaging.TxRunner = (*TxRunner)(nil)

// txMaxAttempts reintentos ante fallos de serialización o deadlock.
const txMaxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con reintento
// acotado cuando el motor aborta por serialización o deadlock (40001/40P01).
// El callback debe ser re-ejecutable: el estado previo se relee dentro de la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del ledger atados a la
// tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lines repository.StockLineRepository,
	movements repository.StockMovementRepository,
	reservations repository.ReservationRepository,
) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		lines := NewStockLineRepository(tx)
		movements := NewStockMovementRepository(tx)
		reservations := NewReservationRepository(tx)

		if err := fn(lines, movements, reservations); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// RunMessaging inicia una transacción con los repos de mensajería (mensaje y
// preview de conversación se escriben juntos o no se escriben).
func (r *TxRunner) RunMessaging(ctx context.Context, fn func(
	convs repository.ConversationRepository,
	msgs repository.MessageRepository,
) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		convs := NewConversationRepository(tx)
		msgs := NewMessageRepository(tx)

		if err := fn(convs, msgs); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// withRetry reintenta attempt ante errores 40001/40P01 con backoff corto.
func (r *TxRunner) withRetry(ctx context.Context, attempt func() error) error {
	var err error
	for i := 0; i < txMaxAttempts; i++ {
		err = attempt()
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 25 * time.Millisecond):
		}
	}
	return err
}
