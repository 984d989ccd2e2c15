package alerting

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

// UseCase proyecciones de lectura y reconocimiento de alertas para el vendedor.
type UseCase struct {
	alerts repository.StockAlertRepository
}

// NewUseCase construye el caso de uso de alertas.
func NewUseCase(alerts repository.StockAlertRepository) *UseCase {
	return &UseCase{alerts: alerts}
}

// List devuelve las alertas del vendedor, filtradas por estado de reconocimiento.
func (uc *UseCase) List(ctx context.Context, sellerID string, acknowledged bool, limit, offset int) ([]entity.StockAlert, error) {
	return uc.alerts.ListBySeller(ctx, sellerID, acknowledged, limit, offset)
}

// Acknowledge reconoce una alerta del vendedor. Reconocer dos veces es no-op.
// Solo el dueño de la alerta puede reconocerla.
func (uc *UseCase) Acknowledge(ctx context.Context, alertID, sellerID string) error {
	alert, err := uc.alerts.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if alert.SellerID != sellerID {
		return domain.ErrForbidden
	}
	_, err = uc.alerts.Acknowledge(ctx, alertID, sellerID, time.Now().UTC())
	return err
}
