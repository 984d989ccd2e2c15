package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
	"github.com/linka-market/stock-core/pkg/logger"
)

// UseCase coordina el protocolo de dos fases sobre el ledger: reserve toma un
// hold contra available, commit lo convierte en deducción real y release lo
// cancela. Cada operación es una sola unidad atómica con bloqueo de fila, y la
// primera transición terminal de un token gana (commit/release/sweep
// concurrentes no se pisan).
type UseCase struct {
	txRunner     ledger.TxRunner
	reservations repository.ReservationRepository
	publisher    ledger.Publisher
	locker       ledger.Locker
	defaultTTL   time.Duration
	log          *logger.Logger
}

// NewUseCase construye el coordinador de reservas.
func NewUseCase(
	txRunner ledger.TxRunner,
	reservations repository.ReservationRepository,
	publisher ledger.Publisher,
	locker ledger.Locker,
	defaultTTL time.Duration,
	log *logger.Logger,
) *UseCase {
	if locker == nil {
		locker = ledger.NopLocker{}
	}
	return &UseCase{
		txRunner:     txRunner,
		reservations: reservations,
		publisher:    publisher,
		locker:       locker,
		defaultTTL:   defaultTTL,
		log:          log,
	}
}

// Reserve toma un hold de qty unidades contra la línea: requiere
// available >= qty, incrementa reserved y registra un movimiento
// reservation-hold (delta 0 sobre on_hand). No hay reservas parciales.
// TTL <= 0 usa el TTL por defecto.
func (uc *UseCase) Reserve(ctx context.Context, key entity.StockKey, qty int64, reference string, ttl time.Duration) (*entity.Reservation, error) {
	if key.ProductID == "" || qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if ttl <= 0 {
		ttl = uc.defaultTTL
	}

	unlock, err := uc.locker.Lock(ctx, key.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := time.Now().UTC()
	var (
		res *entity.Reservation
		ev  ledger.ChangeEvent
	)

	err = uc.txRunner.Run(ctx, func(
		lines repository.StockLineRepository,
		movs repository.StockMovementRepository,
		reservations repository.ReservationRepository,
	) error {
		line, err := lines.GetByKeyForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if line.Archived {
			return domain.ErrLineArchived
		}
		if line.Available() < qty {
			return domain.ErrInsufficientStock
		}

		availBefore := line.Available()
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			StockLineID:    line.ID,
			Kind:           entity.MovementReservationHold,
			Delta:          0,
			QuantityBefore: line.OnHand,
			QuantityAfter:  line.OnHand,
			ReservedBefore: line.Reserved,
			ReservedAfter:  line.Reserved + qty,
			UnitCost:       line.CostPerUnit,
			Reference:      reference,
			Actor:          reference,
			CreatedAt:      now,
		}

		line.Reserved += qty
		line.UpdatedAt = now

		res = &entity.Reservation{
			ID:          uuid.New().String(),
			StockLineID: line.ID,
			Quantity:    qty,
			Reference:   reference,
			Status:      entity.ReservationHeld,
			ExpiresAt:   now.Add(ttl),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := lines.Upsert(ctx, line); err != nil {
			return err
		}
		if err := movs.Create(ctx, mov); err != nil {
			return err
		}
		if err := reservations.Create(ctx, res); err != nil {
			return err
		}

		ev = ledger.ChangeEvent{
			Line:            *line,
			AvailableBefore: availBefore,
			AvailableAfter:  line.Available(),
			Movement:        *mov,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.PublishLineChanged(ev)
	return res, nil
}

// Commit convierte el hold en deducción real: decrementa on_hand y reserved por
// la cantidad retenida y registra un movimiento sold. Idempotente: repetir el
// commit de un token ya committed es no-op y devuelve el resultado previo;
// commit de un token released falla con ErrReservationClosed.
func (uc *UseCase) Commit(ctx context.Context, tokenID string) (*entity.Reservation, error) {
	return uc.finalize(ctx, tokenID, entity.ReservationCommitted, "")
}

// Release cancela el hold: decrementa reserved, on_hand queda intacto y se
// registra un movimiento reservation-release. Misma idempotencia que Commit:
// release de un token released es no-op; release de un token committed falla
// con ErrReservationClosed (nunca des-deduce stock vendido).
func (uc *UseCase) Release(ctx context.Context, tokenID string) (*entity.Reservation, error) {
	return uc.finalize(ctx, tokenID, entity.ReservationReleased, "")
}

// finalize aplica la transición terminal solicitada. actor vacío = el caller;
// "sweeper" cuando la invoca el barrido de expiración.
func (uc *UseCase) finalize(ctx context.Context, tokenID, target, actor string) (*entity.Reservation, error) {
	if tokenID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	var (
		res *entity.Reservation
		ev  ledger.ChangeEvent
		// noop indica que el token ya estaba en el estado objetivo (idempotencia).
		noop bool
	)

	err := uc.txRunner.Run(ctx, func(
		lines repository.StockLineRepository,
		movs repository.StockMovementRepository,
		reservations repository.ReservationRepository,
	) error {
		var err error
		res, err = reservations.GetByIDForUpdate(ctx, tokenID)
		if err != nil {
			return err
		}
		if res.Status == target {
			noop = true
			return nil
		}
		if res.Terminal() {
			return domain.ErrReservationClosed
		}

		line, err := lines.GetByID(ctx, res.StockLineID)
		if err != nil {
			return err
		}
		lockedLine, err := lines.GetByKeyForUpdate(ctx, line.Key())
		if err != nil {
			return err
		}
		line = lockedLine

		availBefore := line.Available()
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			StockLineID: line.ID,
			UnitCost:    line.CostPerUnit,
			Reference:   res.Reference,
			Actor:       actor,
			CreatedAt:   now,
		}

		switch target {
		case entity.ReservationCommitted:
			if line.OnHand < res.Quantity || line.Reserved < res.Quantity {
				// Solo posible ante corrupción externa del ledger.
				return domain.ErrInvariantViolation
			}
			mov.Kind = entity.MovementSold
			mov.Delta = -res.Quantity
			mov.QuantityBefore = line.OnHand
			mov.QuantityAfter = line.OnHand - res.Quantity
			mov.ReservedBefore = line.Reserved
			mov.ReservedAfter = line.Reserved - res.Quantity
			line.OnHand -= res.Quantity
			line.Reserved -= res.Quantity
		case entity.ReservationReleased:
			if line.Reserved < res.Quantity {
				return domain.ErrInvariantViolation
			}
			mov.Kind = entity.MovementReservationRelease
			mov.Delta = 0
			mov.QuantityBefore = line.OnHand
			mov.QuantityAfter = line.OnHand
			mov.ReservedBefore = line.Reserved
			mov.ReservedAfter = line.Reserved - res.Quantity
			line.Reserved -= res.Quantity
		default:
			return domain.ErrInvalidInput
		}
		line.UpdatedAt = now

		ok, err := reservations.TransitionStatus(ctx, res.ID, entity.ReservationHeld, target, now)
		if err != nil {
			return err
		}
		if !ok {
			// Otro caller ganó la transición entre el FOR UPDATE y aquí; con el
			// bloqueo de fila no debería ocurrir, pero el update condicional lo cubre.
			return domain.ErrReservationClosed
		}
		res.Status = target
		res.UpdatedAt = now

		if err := lines.Upsert(ctx, line); err != nil {
			return err
		}
		if err := movs.Create(ctx, mov); err != nil {
			return err
		}

		ev = ledger.ChangeEvent{
			Line:            *line,
			AvailableBefore: availBefore,
			AvailableAfter:  line.Available(),
			Movement:        *mov,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if noop {
		return res, nil
	}

	uc.publisher.PublishLineChanged(ev)
	return res, nil
}
