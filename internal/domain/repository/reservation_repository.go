package repository

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// ReservationRepository acceso a los tokens de reserva.
type ReservationRepository interface {
	Create(ctx context.Context, res *entity.Reservation) error
	// GetByID devuelve la reserva o domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	// GetByIDForUpdate bloquea la fila dentro de la tx del caller, para que la
	// primera transición terminal gane frente a commit/release/sweep concurrentes.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	// TransitionStatus hace el update condicional status: from -> to.
	// Devuelve false si la fila ya no estaba en from (otro caller ganó).
	TransitionStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error)
	// ListExpiredHeld devuelve holds vencidos aún en estado held, para el barrido.
	ListExpiredHeld(ctx context.Context, now time.Time, limit int) ([]entity.Reservation, error)
}
