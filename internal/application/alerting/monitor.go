package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appledger "github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/domain/entity"
	domledger "github.com/linka-market/stock-core/internal/domain/ledger"
	"github.com/linka-market/stock-core/internal/domain/repository"
	"github.com/linka-market/stock-core/pkg/logger"
)

// Dispatcher es el contrato del monitor hacia el router de notificaciones.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev notification.Event) error
}

// Monitor decide, por cada mutación del ledger, si el cambio de available
// constituye un cruce de umbral. Solo el flanco genera alerta: un nuevo cruce
// del mismo umbral (ej. reposición y nueva caída) crea una alerta nueva porque
// es un hecho materialmente distinto, aunque la anterior siga sin reconocer.
type Monitor struct {
	alerts     repository.StockAlertRepository
	dispatcher Dispatcher
	log        *logger.Logger
}

// NewMonitor construye el monitor de umbrales.
func NewMonitor(alerts repository.StockAlertRepository, dispatcher Dispatcher, log *logger.Logger) *Monitor {
	return &Monitor{alerts: alerts, dispatcher: dispatcher, log: log}
}

// HandleChange es el handler suscrito al bus de eventos post-commit del ledger.
// Se ejecuta fuera de la sección crítica del caller, en orden de commit por línea.
func (m *Monitor) HandleChange(ctx context.Context, ev appledger.ChangeEvent) {
	crossing, ok := domledger.Detect(ev.AvailableBefore, ev.AvailableAfter, domledger.ThresholdsOf(&ev.Line))
	if !ok {
		return
	}

	alert := &entity.StockAlert{
		ID:               uuid.New().String(),
		StockLineID:      ev.Line.ID,
		SellerID:         ev.Line.SellerID,
		AlertType:        crossing.AlertType,
		ObservedQuantity: ev.AvailableAfter,
		Threshold:        crossing.Threshold,
		CreatedAt:        time.Now().UTC(),
	}
	if err := m.alerts.Create(ctx, alert); err != nil {
		m.log.Error().Err(err).
			Str("stock_line_id", ev.Line.ID).
			Str("alert_type", crossing.AlertType).
			Msg("monitor de umbrales: persistencia de alerta")
		return
	}

	m.log.Info().
		Str("stock_line_id", ev.Line.ID).
		Str("alert_type", crossing.AlertType).
		Int64("available", ev.AvailableAfter).
		Msg("cruce de umbral detectado")

	if err := m.dispatcher.Dispatch(ctx, notification.Event{
		RecipientID:   ev.Line.SellerID,
		Category:      entity.CategoryLowStockAlert,
		Title:         alertTitle(crossing.AlertType),
		Body:          alertBody(&ev.Line, crossing, ev.AvailableAfter),
		ReferenceType: "stock_alert",
		ReferenceID:   alert.ID,
		Priority:      alertPriority(crossing.AlertType),
	}); err != nil {
		// La alerta ya está persistida; el fan-out fallido se recupera por polling.
		m.log.Error().Err(err).Str("alert_id", alert.ID).Msg("monitor de umbrales: dispatch de notificación")
	}
}

func alertTitle(alertType string) string {
	switch alertType {
	case entity.AlertOutOfStock:
		return "Producto agotado"
	case entity.AlertOverstock:
		return "Sobre-stock detectado"
	default:
		return "Stock bajo"
	}
}

func alertBody(line *entity.StockLine, crossing domledger.Crossing, available int64) string {
	switch crossing.AlertType {
	case entity.AlertOutOfStock:
		return fmt.Sprintf("El producto %s se quedó sin unidades disponibles", line.ProductID)
	case entity.AlertOverstock:
		return fmt.Sprintf("El producto %s superó el nivel máximo (%d disponibles, máximo %d)",
			line.ProductID, available, crossing.Threshold)
	default:
		return fmt.Sprintf("El producto %s bajó del umbral (%d disponibles, umbral %d)",
			line.ProductID, available, crossing.Threshold)
	}
}

func alertPriority(alertType string) string {
	if alertType == entity.AlertOutOfStock {
		return entity.PriorityHigh
	}
	return entity.PriorityMedium
}
