package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvariantViolation = errors.New("la operación rompería el invariante reserved <= on_hand")
	ErrReservationClosed  = errors.New("la reserva ya alcanzó un estado terminal distinto")
	ErrLineArchived       = errors.New("la línea de stock está archivada")
)
