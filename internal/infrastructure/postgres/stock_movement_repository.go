package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: el log es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(ctx context.Context, mov *entity.StockMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (
			id, stock_line_id, kind, delta,
			quantity_before, quantity_after, reserved_before, reserved_after,
			unit_cost, reference, actor, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		mov.ID, mov.StockLineID, mov.Kind, mov.Delta,
		mov.QuantityBefore, mov.QuantityAfter, mov.ReservedBefore, mov.ReservedAfter,
		mov.UnitCost, mov.Reference, mov.Actor, mov.Notes, mov.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByLine devuelve los movimientos de la línea, más recientes primero.
func (r *StockMovementRepo) ListByLine(ctx context.Context, stockLineID string, limit, offset int) ([]entity.StockMovement, error) {
	query := `
		SELECT id, stock_line_id, kind, delta,
			quantity_before, quantity_after, reserved_before, reserved_after,
			unit_cost, reference, actor, notes, created_at
		FROM stock_movements
		WHERE stock_line_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, stockLineID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movs []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.StockLineID, &m.Kind, &m.Delta,
			&m.QuantityBefore, &m.QuantityAfter, &m.ReservedBefore, &m.ReservedAfter,
			&m.UnitCost, &m.Reference, &m.Actor, &m.Notes, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movs = append(movs, m)
	}
	return movs, rows.Err()
}
