package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementReceived           = "received"
	MovementSold               = "sold"
	MovementReturned           = "returned"
	MovementAdjusted           = "adjusted"
	MovementTransferred        = "transferred"
	MovementDamaged            = "damaged"
	MovementReservationHold    = "reservation-hold"
	MovementReservationRelease = "reservation-release"
)

// ValidMovementKind indica si kind es uno de los tipos de movimiento conocidos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementReceived, MovementSold, MovementReturned, MovementAdjusted,
		MovementTransferred, MovementDamaged, MovementReservationHold, MovementReservationRelease:
		return true
	}
	return false
}

// StockMovement es el registro inmutable de auditoría del ledger: exactamente
// uno por mutación exitosa. Nunca se modifica ni se borra; es la fuente de
// verdad para reconstruir la historia de una línea.
type StockMovement struct {
	ID          string
	StockLineID string
	Kind        string
	Delta       int64 // cambio con signo sobre on_hand (0 para hold/release)

	QuantityBefore int64 // on_hand antes del movimiento
	QuantityAfter  int64
	ReservedBefore int64
	ReservedAfter  int64

	UnitCost  decimal.Decimal // costo unitario aplicado (recepciones) o promedio vigente
	Reference string          // id de orden, transferencia, nota de ajuste, etc.
	Actor     string          // UserID o "sweeper" para liberaciones forzadas
	Notes     string
	CreatedAt time.Time
}
