package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

const stockAlertColumns = `id, stock_line_id, seller_id, alert_type, observed_quantity, threshold,
	acknowledged, acknowledged_by, acknowledged_at, created_at`

func scanStockAlert(row pgx.Row) (*entity.StockAlert, error) {
	var a entity.StockAlert
	err := row.Scan(
		&a.ID, &a.StockLineID, &a.SellerID, &a.AlertType, &a.ObservedQuantity, &a.Threshold,
		&a.Acknowledged, &a.AcknowledgedBy, &a.AcknowledgedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan stock alert: %w", err)
	}
	return &a, nil
}

// Create persiste una alerta de cruce de umbral.
func (r *StockAlertRepo) Create(ctx context.Context, alert *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (id, stock_line_id, seller_id, alert_type, observed_quantity, threshold,
			acknowledged, acknowledged_by, acknowledged_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.StockLineID, alert.SellerID, alert.AlertType, alert.ObservedQuantity, alert.Threshold,
		alert.Acknowledged, alert.AcknowledgedBy, alert.AcknowledgedAt, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock alert: %w", err)
	}
	return nil
}

// GetByID obtiene la alerta por id.
func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	query := `SELECT ` + stockAlertColumns + ` FROM stock_alerts WHERE id = $1`
	return scanStockAlert(r.q.QueryRow(ctx, query, id))
}

// ListBySeller lista las alertas del vendedor por estado de reconocimiento, más recientes primero.
func (r *StockAlertRepo) ListBySeller(ctx context.Context, sellerID string, acknowledged bool, limit, offset int) ([]entity.StockAlert, error) {
	query := `SELECT ` + stockAlertColumns + `
		FROM stock_alerts
		WHERE seller_id = $1 AND acknowledged = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, sellerID, acknowledged, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	defer rows.Close()

	var alerts []entity.StockAlert
	for rows.Next() {
		a, err := scanStockAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

// Acknowledge marca la alerta como reconocida. Devuelve false si ya lo estaba.
func (r *StockAlertRepo) Acknowledge(ctx context.Context, id, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE stock_alerts
		SET acknowledged = true, acknowledged_by = $1, acknowledged_at = $2
		WHERE id = $3 AND acknowledged = false`
	tag, err := r.q.Exec(ctx, query, userID, at, id)
	if err != nil {
		return false, fmt.Errorf("acknowledge stock alert: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
