package reservation

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
	"github.com/linka-market/stock-core/pkg/logger"
)

// sweepBatchSize holds procesados por pasada del barrido.
const sweepBatchSize = 100

// Sweeper libera de forma forzada los holds que vencieron sin commit ni
// release, para no dejar stock reservado varado. Es seguro frente a
// commit/release concurrentes: la primera transición terminal gana y las
// posteriores son no-ops.
type Sweeper struct {
	uc           *UseCase
	reservations repository.ReservationRepository
	interval     time.Duration
	log          *logger.Logger
}

// NewSweeper construye el barrido de expiración.
func NewSweeper(uc *UseCase, reservations repository.ReservationRepository, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{uc: uc, reservations: reservations, interval: interval, log: log}
}

// Start lanza el loop del barrido hasta que ctx se cancele.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// SweepOnce ejecuta una pasada: lista holds vencidos y los libera uno a uno.
// Devuelve cuántos liberó. Un hold que otro caller cerró entre el listado y la
// liberación se ignora sin error.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	expired, err := s.reservations.ListExpiredHeld(ctx, time.Now().UTC(), sweepBatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de reservas: listado de holds vencidos")
		return 0
	}

	released := 0
	for _, res := range expired {
		_, err := s.uc.finalize(ctx, res.ID, entity.ReservationReleased, "sweeper")
		switch err {
		case nil:
			released++
		case domain.ErrReservationClosed, domain.ErrNotFound:
			// Otro caller llegó primero; nada que hacer.
		default:
			s.log.Error().Err(err).Str("reservation_id", res.ID).Msg("barrido de reservas: liberación forzada")
		}
	}
	if released > 0 {
		s.log.Info().Int("released", released).Msg("barrido de reservas: holds vencidos liberados")
	}
	return released
}
