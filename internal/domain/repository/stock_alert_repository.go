package repository

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// StockAlertRepository acceso a las alertas de stock (propiedad del monitor de umbrales).
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.StockAlert) error
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	ListBySeller(ctx context.Context, sellerID string, acknowledged bool, limit, offset int) ([]entity.StockAlert, error)
	// Acknowledge marca la alerta como reconocida. Devuelve false si ya lo estaba.
	Acknowledge(ctx context.Context, id, userID string, at time.Time) (bool, error)
}
