package repository

import (
	"context"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// StockMovementRepository acceso al log append-only de movimientos.
// No hay Update ni Delete: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(ctx context.Context, mov *entity.StockMovement) error
	ListByLine(ctx context.Context, stockLineID string, limit, offset int) ([]entity.StockMovement, error)
}
