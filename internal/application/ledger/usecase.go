package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	domledger "github.com/linka-market/stock-core/internal/domain/ledger"
	"github.com/linka-market/stock-core/internal/domain/repository"
	"github.com/linka-market/stock-core/pkg/logger"
)

// UseCase es el motor del ledger de stock: aplica movimientos de forma
// transaccional con bloqueo de fila, registra exactamente un StockMovement por
// mutación y emite el evento post-commit que alimenta al monitor de umbrales.
type UseCase struct {
	txRunner  TxRunner
	lines     repository.StockLineRepository
	movements repository.StockMovementRepository
	publisher Publisher
	locker    Locker
	log       *logger.Logger
}

// NewUseCase construye el motor. lines/movements van atados al pool (lecturas);
// las escrituras pasan siempre por txRunner.
func NewUseCase(
	txRunner TxRunner,
	lines repository.StockLineRepository,
	movements repository.StockMovementRepository,
	publisher Publisher,
	locker Locker,
	log *logger.Logger,
) *UseCase {
	if locker == nil {
		locker = NopLocker{}
	}
	return &UseCase{
		txRunner:  txRunner,
		lines:     lines,
		movements: movements,
		publisher: publisher,
		locker:    locker,
		log:       log,
	}
}

// MovementInput entrada para ApplyMovement.
// SellerID solo es obligatorio cuando la primera recepción crea la línea.
type MovementInput struct {
	SellerID  string
	Key       entity.StockKey
	Kind      string
	Delta     int64
	Reference string
	Actor     string
	Notes     string
	UnitCost  *decimal.Decimal // obligatorio en recepciones
}

// ApplyMovement aplica un movimiento directo sobre on_hand como unidad atómica:
// bloquea la fila, valida invariantes (on_hand >= 0, reserved <= on_hand),
// actualiza la línea y registra el movimiento. Falla con ErrInsufficientStock
// si un delta negativo dejaría on_hand < 0 y con ErrInvariantViolation si
// dejaría reserved > on_hand.
func (uc *UseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockLine, *entity.StockMovement, error) {
	if err := validateMovementInput(input); err != nil {
		return nil, nil, err
	}

	unlock, err := uc.locker.Lock(ctx, input.Key.String())
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	now := time.Now().UTC()
	var (
		line *entity.StockLine
		mov  *entity.StockMovement
		ev   ChangeEvent
	)

	err = uc.txRunner.Run(ctx, func(
		lines repository.StockLineRepository,
		movs repository.StockMovementRepository,
		_ repository.ReservationRepository,
	) error {
		var err error
		line, err = uc.lineForMovement(ctx, lines, input, now)
		if err != nil {
			return err
		}

		availBefore := line.Available()
		newOnHand := line.OnHand + input.Delta
		if newOnHand < 0 {
			return domain.ErrInsufficientStock
		}
		if line.Reserved > newOnHand {
			return domain.ErrInvariantViolation
		}

		unitCost := line.CostPerUnit
		if input.Kind == entity.MovementReceived {
			unitCost = *input.UnitCost
			line.CostPerUnit = domledger.WeightedAverageCost(line.OnHand, line.CostPerUnit, input.Delta, unitCost)
			line.LastRestockAt = &now
		}

		mov = &entity.StockMovement{
			ID:             uuid.New().String(),
			StockLineID:    line.ID,
			Kind:           input.Kind,
			Delta:          input.Delta,
			QuantityBefore: line.OnHand,
			QuantityAfter:  newOnHand,
			ReservedBefore: line.Reserved,
			ReservedAfter:  line.Reserved,
			UnitCost:       unitCost,
			Reference:      input.Reference,
			Actor:          input.Actor,
			Notes:          input.Notes,
			CreatedAt:      now,
		}

		line.OnHand = newOnHand
		line.UpdatedAt = now

		if err := lines.Upsert(ctx, line); err != nil {
			return err
		}
		if err := movs.Create(ctx, mov); err != nil {
			return err
		}

		ev = ChangeEvent{
			Line:            *line,
			AvailableBefore: availBefore,
			AvailableAfter:  line.Available(),
			Movement:        *mov,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Reacción post-commit: el observador ve la línea y el movimiento juntos.
	uc.publisher.PublishLineChanged(ev)
	return line, mov, nil
}

// lineForMovement bloquea la línea, o la crea en cero si la primera recepción
// llega para una clave nueva.
func (uc *UseCase) lineForMovement(
	ctx context.Context,
	lines repository.StockLineRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockLine, error) {
	line, err := lines.GetByKeyForUpdate(ctx, input.Key)
	if err == nil {
		if line.Archived {
			return nil, domain.ErrLineArchived
		}
		return line, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}
	if input.Kind != entity.MovementReceived || input.Delta <= 0 {
		return nil, domain.ErrNotFound
	}
	if input.SellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	return &entity.StockLine{
		ID:          uuid.New().String(),
		SellerID:    input.SellerID,
		ProductID:   input.Key.ProductID,
		VariantID:   input.Key.VariantID,
		WarehouseID: input.Key.WarehouseID,
		CostPerUnit: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateMovementInput(input MovementInput) error {
	if input.Key.ProductID == "" || input.Delta == 0 {
		return domain.ErrInvalidInput
	}
	switch input.Kind {
	case entity.MovementReceived, entity.MovementReturned:
		if input.Delta < 0 {
			return domain.ErrInvalidInput
		}
		if input.Kind == entity.MovementReceived && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
			return domain.ErrInvalidInput
		}
	case entity.MovementSold, entity.MovementDamaged:
		if input.Delta > 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementAdjusted:
		// cualquier signo
	default:
		// transferred va por Transfer; hold/release son exclusivos del coordinador
		return domain.ErrInvalidInput
	}
	return nil
}

// TransferInput entrada para Transfer: mueve cantidad entre bodegas del mismo
// producto/variante como una sola unidad atómica.
type TransferInput struct {
	ProductID       string
	VariantID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Actor           string
	Notes           string
}

// Transfer resta de la bodega origen y suma en la destino en la misma
// transacción, registrando dos movimientos que comparten el id de
// transferencia. Rechaza con ErrInsufficientStock si el origen no tiene
// available suficiente (el stock reservado no se puede mover).
func (uc *UseCase) Transfer(ctx context.Context, input TransferInput) error {
	if input.ProductID == "" || input.Quantity <= 0 ||
		input.FromWarehouseID == input.ToWarehouseID {
		return domain.ErrInvalidInput
	}

	fromKey := entity.StockKey{ProductID: input.ProductID, VariantID: input.VariantID, WarehouseID: input.FromWarehouseID}
	toKey := entity.StockKey{ProductID: input.ProductID, VariantID: input.VariantID, WarehouseID: input.ToWarehouseID}

	// Locks en orden determinista de clave para no interbloquear transferencias cruzadas.
	first, second := fromKey, toKey
	if second.String() < first.String() {
		first, second = second, first
	}
	unlockFirst, err := uc.locker.Lock(ctx, first.String())
	if err != nil {
		return err
	}
	defer unlockFirst()
	unlockSecond, err := uc.locker.Lock(ctx, second.String())
	if err != nil {
		return err
	}
	defer unlockSecond()

	now := time.Now().UTC()
	transferID := uuid.New().String()
	var events []ChangeEvent

	err = uc.txRunner.Run(ctx, func(
		lines repository.StockLineRepository,
		movs repository.StockMovementRepository,
		_ repository.ReservationRepository,
	) error {
		lockOrder := []entity.StockKey{first, second}
		locked := map[entity.StockKey]*entity.StockLine{}
		for _, k := range lockOrder {
			line, err := lines.GetByKeyForUpdate(ctx, k)
			if err == domain.ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			locked[k] = line
		}

		origin := locked[fromKey]
		if origin == nil {
			return domain.ErrNotFound
		}
		if origin.Archived {
			return domain.ErrLineArchived
		}
		if origin.Available() < input.Quantity {
			return domain.ErrInsufficientStock
		}

		dest := locked[toKey]
		if dest == nil {
			dest = &entity.StockLine{
				ID:          uuid.New().String(),
				SellerID:    origin.SellerID,
				ProductID:   toKey.ProductID,
				VariantID:   toKey.VariantID,
				WarehouseID: toKey.WarehouseID,
				CostPerUnit: origin.CostPerUnit,
				CreatedAt:   now,
			}
		}
		if dest.Archived {
			return domain.ErrLineArchived
		}

		for _, step := range []struct {
			line  *entity.StockLine
			delta int64
		}{
			{origin, -input.Quantity},
			{dest, input.Quantity},
		} {
			availBefore := step.line.Available()
			mov := &entity.StockMovement{
				ID:             uuid.New().String(),
				StockLineID:    step.line.ID,
				Kind:           entity.MovementTransferred,
				Delta:          step.delta,
				QuantityBefore: step.line.OnHand,
				QuantityAfter:  step.line.OnHand + step.delta,
				ReservedBefore: step.line.Reserved,
				ReservedAfter:  step.line.Reserved,
				UnitCost:       origin.CostPerUnit,
				Reference:      transferID,
				Actor:          input.Actor,
				Notes:          input.Notes,
				CreatedAt:      now,
			}
			step.line.OnHand += step.delta
			step.line.UpdatedAt = now
			if step.delta > 0 {
				step.line.LastRestockAt = &now
			}
			if err := lines.Upsert(ctx, step.line); err != nil {
				return err
			}
			if err := movs.Create(ctx, mov); err != nil {
				return err
			}
			events = append(events, ChangeEvent{
				Line:            *step.line,
				AvailableBefore: availBefore,
				AvailableAfter:  step.line.Available(),
				Movement:        *mov,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ev := range events {
		uc.publisher.PublishLineChanged(ev)
	}
	uc.log.Info().
		Str("transfer_id", transferID).
		Str("product_id", input.ProductID).
		Int64("quantity", input.Quantity).
		Msg("transferencia de stock aplicada")
	return nil
}

// ThresholdsInput entrada para ConfigureThresholds (upsert de umbrales).
type ThresholdsInput struct {
	Key               entity.StockKey
	LowStockThreshold *int64
	ReorderPoint      *int64
	MaxStockLevel     *int64
}

// ConfigureThresholds fija los umbrales de alerta de la línea.
func (uc *UseCase) ConfigureThresholds(ctx context.Context, input ThresholdsInput) error {
	return uc.txRunner.Run(ctx, func(
		lines repository.StockLineRepository,
		_ repository.StockMovementRepository,
		_ repository.ReservationRepository,
	) error {
		line, err := lines.GetByKeyForUpdate(ctx, input.Key)
		if err != nil {
			return err
		}
		line.LowStockThreshold = input.LowStockThreshold
		line.ReorderPoint = input.ReorderPoint
		line.MaxStockLevel = input.MaxStockLevel
		line.UpdatedAt = time.Now().UTC()
		return lines.Upsert(ctx, line)
	})
}

// Archive archiva la línea (nunca se borra, para no invalidar la auditoría).
func (uc *UseCase) Archive(ctx context.Context, key entity.StockKey) error {
	return uc.txRunner.Run(ctx, func(
		lines repository.StockLineRepository,
		_ repository.StockMovementRepository,
		_ repository.ReservationRepository,
	) error {
		line, err := lines.GetByKeyForUpdate(ctx, key)
		if err != nil {
			return err
		}
		line.Archived = true
		line.UpdatedAt = time.Now().UTC()
		return lines.Upsert(ctx, line)
	})
}

// GetLine proyección de lectura de una línea.
func (uc *UseCase) GetLine(ctx context.Context, key entity.StockKey) (*entity.StockLine, error) {
	return uc.lines.GetByKey(ctx, key)
}

// ListMovements proyección de lectura de los movimientos recientes de una línea.
func (uc *UseCase) ListMovements(ctx context.Context, key entity.StockKey, limit, offset int) ([]entity.StockMovement, error) {
	line, err := uc.lines.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return uc.movements.ListByLine(ctx, line.ID, limit, offset)
}

// ListLinesBySeller proyección de lectura de las líneas de un vendedor.
func (uc *UseCase) ListLinesBySeller(ctx context.Context, sellerID string, limit, offset int) ([]entity.StockLine, error) {
	return uc.lines.ListBySeller(ctx, sellerID, limit, offset)
}
