package ledger

import (
	"context"

	"github.com/linka-market/stock-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// línea, movimiento y reserva cambian juntos o no cambian.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lines repository.StockLineRepository,
		movs repository.StockMovementRepository,
		reservations repository.ReservationRepository,
	) error) error
}

// Publisher recibe los eventos post-commit del ledger. La implementación
// garantiza orden FIFO por clave de línea.
type Publisher interface {
	PublishLineChanged(ev ChangeEvent)
}

// Locker serializa mutaciones por clave de línea por encima del bloqueo de
// fila. La implementación por defecto es un no-op (el FOR UPDATE de PostgreSQL
// basta); sobre Redis se usa cuando hay varios escritores fuera de la BD.
type Locker interface {
	// Lock adquiere el lock para key y devuelve la función de liberación.
	Lock(ctx context.Context, key string) (func(), error)
}

// NopLocker no serializa nada: delega toda la exclusión al bloqueo de fila.
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
