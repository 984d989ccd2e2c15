package repository

import (
	"context"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// StockLineRepository acceso a las líneas de stock. Solo el motor del ledger
// escribe aquí; el resto del sistema lee proyecciones.
type StockLineRepository interface {
	// GetByKey devuelve la línea o domain.ErrNotFound.
	GetByKey(ctx context.Context, key entity.StockKey) (*entity.StockLine, error)
	// GetByKeyForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la tx del caller.
	GetByKeyForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLine, error)
	GetByID(ctx context.Context, id string) (*entity.StockLine, error)
	// Upsert inserta o actualiza la línea completa.
	Upsert(ctx context.Context, line *entity.StockLine) error
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]entity.StockLine, error)
}
