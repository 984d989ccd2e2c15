package dto

import (
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// ReserveRequest body para POST /api/reservations.
type ReserveRequest struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Quantity    int64  `json:"quantity"`
	Reference   string `json:"reference,omitempty"`
	TTLSeconds  int64  `json:"ttl_seconds,omitempty"`
}

// ReservationResponse proyección de una reserva.
type ReservationResponse struct {
	ID          string    `json:"id"`
	StockLineID string    `json:"stock_line_id"`
	Quantity    int64     `json:"quantity"`
	Reference   string    `json:"reference,omitempty"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReservationResponse mapea la entidad a su proyección HTTP.
func NewReservationResponse(res *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          res.ID,
		StockLineID: res.StockLineID,
		Quantity:    res.Quantity,
		Reference:   res.Reference,
		Status:      res.Status,
		ExpiresAt:   res.ExpiresAt,
		CreatedAt:   res.CreatedAt,
	}
}
