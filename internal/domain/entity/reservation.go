package entity

import "time"

// Estados de una reserva. Held es el único estado no terminal; la primera
// transición terminal (Committed o Released) gana y las posteriores son no-ops
// o rechazos según coincida o no el resultado.
const (
	ReservationHeld      = "held"
	ReservationCommitted = "committed"
	ReservationReleased  = "released"
)

// Reservation es el token de un hold de stock pendiente de confirmación de orden.
type Reservation struct {
	ID          string
	StockLineID string
	Quantity    int64
	Reference   string // id de la orden que origina el hold
	Status      string
	ExpiresAt   time.Time // vencido el plazo, el barrido lo libera de forma forzada
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terminal indica si la reserva ya alcanzó Committed o Released.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationCommitted || r.Status == ReservationReleased
}
