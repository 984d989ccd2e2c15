package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ repository.StockLineRepository = (*StockLineRepo)(nil)

// StockLineRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockLineRepo struct {
	q Querier
}

// NewStockLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLineRepository(q Querier) *StockLineRepo {
	return &StockLineRepo{q: q}
}

const stockLineColumns = `
	id, seller_id, product_id, variant_id, warehouse_id,
	on_hand, reserved, cost_per_unit,
	low_stock_threshold, reorder_point, max_stock_level,
	last_restock_at, archived, created_at, updated_at`

func scanStockLine(row pgx.Row) (*entity.StockLine, error) {
	var l entity.StockLine
	err := row.Scan(
		&l.ID, &l.SellerID, &l.ProductID, &l.VariantID, &l.WarehouseID,
		&l.OnHand, &l.Reserved, &l.CostPerUnit,
		&l.LowStockThreshold, &l.ReorderPoint, &l.MaxStockLevel,
		&l.LastRestockAt, &l.Archived, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan stock line: %w", err)
	}
	return &l, nil
}

// GetByKey obtiene la línea por su clave (producto, variante, bodega).
func (r *StockLineRepo) GetByKey(ctx context.Context, key entity.StockKey) (*entity.StockLine, error) {
	query := `SELECT ` + stockLineColumns + `
		FROM stock_lines
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3`
	return scanStockLine(r.q.QueryRow(ctx, query, key.ProductID, key.VariantID, key.WarehouseID))
}

// GetByKeyForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *StockLineRepo) GetByKeyForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLine, error) {
	query := `SELECT ` + stockLineColumns + `
		FROM stock_lines
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3
		FOR UPDATE`
	return scanStockLine(r.q.QueryRow(ctx, query, key.ProductID, key.VariantID, key.WarehouseID))
}

// GetByID obtiene la línea por id.
func (r *StockLineRepo) GetByID(ctx context.Context, id string) (*entity.StockLine, error) {
	query := `SELECT ` + stockLineColumns + ` FROM stock_lines WHERE id = $1`
	return scanStockLine(r.q.QueryRow(ctx, query, id))
}

// Upsert inserta o actualiza la línea completa (conflicto por clave natural).
func (r *StockLineRepo) Upsert(ctx context.Context, line *entity.StockLine) error {
	query := `
		INSERT INTO stock_lines (
			id, seller_id, product_id, variant_id, warehouse_id,
			on_hand, reserved, cost_per_unit,
			low_stock_threshold, reorder_point, max_stock_level,
			last_restock_at, archived, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (product_id, variant_id, warehouse_id) DO UPDATE SET
			on_hand = EXCLUDED.on_hand,
			reserved = EXCLUDED.reserved,
			cost_per_unit = EXCLUDED.cost_per_unit,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			reorder_point = EXCLUDED.reorder_point,
			max_stock_level = EXCLUDED.max_stock_level,
			last_restock_at = EXCLUDED.last_restock_at,
			archived = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.SellerID, line.ProductID, line.VariantID, line.WarehouseID,
		line.OnHand, line.Reserved, line.CostPerUnit,
		line.LowStockThreshold, line.ReorderPoint, line.MaxStockLevel,
		line.LastRestockAt, line.Archived, line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock line: %w", err)
	}
	return nil
}

// ListBySeller lista las líneas activas del vendedor.
func (r *StockLineRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]entity.StockLine, error) {
	query := `SELECT ` + stockLineColumns + `
		FROM stock_lines
		WHERE seller_id = $1 AND archived = false
		ORDER BY product_id, variant_id, warehouse_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.StockLine
	for rows.Next() {
		l, err := scanStockLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}
