package dto

import (
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// StockAlertResponse proyección de una alerta de umbral.
type StockAlertResponse struct {
	ID               string     `json:"id"`
	StockLineID      string     `json:"stock_line_id"`
	AlertType        string     `json:"alert_type"`
	ObservedQuantity int64      `json:"observed_quantity"`
	Threshold        int64      `json:"threshold"`
	Acknowledged     bool       `json:"acknowledged"`
	AcknowledgedBy   string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewStockAlertResponse mapea la entidad a su proyección HTTP.
func NewStockAlertResponse(alert *entity.StockAlert) StockAlertResponse {
	return StockAlertResponse{
		ID:               alert.ID,
		StockLineID:      alert.StockLineID,
		AlertType:        alert.AlertType,
		ObservedQuantity: alert.ObservedQuantity,
		Threshold:        alert.Threshold,
		Acknowledged:     alert.Acknowledged,
		AcknowledgedBy:   alert.AcknowledgedBy,
		AcknowledgedAt:   alert.AcknowledgedAt,
		CreatedAt:        alert.CreatedAt,
	}
}
