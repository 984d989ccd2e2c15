package alerting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linka-market/stock-core/internal/application/alerting"
	appledger "github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memAlertRepo struct {
	mu     sync.Mutex
	alerts map[string]entity.StockAlert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: map[string]entity.StockAlert{}}
}

func (r *memAlertRepo) Create(_ context.Context, alert *entity.StockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *memAlertRepo) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := alert
	return &cp, nil
}

func (r *memAlertRepo) ListBySeller(_ context.Context, sellerID string, acknowledged bool, limit, offset int) ([]entity.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StockAlert
	for _, a := range r.alerts {
		if a.SellerID == sellerID && a.Acknowledged == acknowledged {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAlertRepo) Acknowledge(_ context.Context, id, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok || alert.Acknowledged {
		return false, nil
	}
	alert.Acknowledged = true
	alert.AcknowledgedBy = userID
	alert.AcknowledgedAt = &at
	r.alerts[id] = alert
	return true, nil
}

func (r *memAlertRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

func (r *memAlertRepo) single() entity.StockAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		return a
	}
	return entity.StockAlert{}
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
}

func (d *captureDispatcher) Dispatch(_ context.Context, ev notification.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return d.err
}

func (d *captureDispatcher) all() []notification.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Event(nil), d.events...)
}

func ptr(v int64) *int64 { return &v }

func changeEvent(before, after int64, low, max *int64) appledger.ChangeEvent {
	return appledger.ChangeEvent{
		Line: entity.StockLine{
			ID:                "line-1",
			SellerID:          "seller-1",
			ProductID:         "prod-1",
			LowStockThreshold: low,
			MaxStockLevel:     max,
		},
		AvailableBefore: before,
		AvailableAfter:  after,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// HandleChange
// ──────────────────────────────────────────────────────────────────────────────

func TestHandleChange_CruceDescendente_CreaAlertaYNotifica(t *testing.T) {
	repo := newMemAlertRepo()
	dispatcher := &captureDispatcher{}
	monitor := alerting.NewMonitor(repo, dispatcher, logger.Nop())

	monitor.HandleChange(context.Background(), changeEvent(100, 9, ptr(10), nil))

	require.Equal(t, 1, repo.count(), "exactamente una alerta por cruce")
	alert := repo.single()
	assert.Equal(t, entity.AlertLowStock, alert.AlertType)
	assert.Equal(t, "seller-1", alert.SellerID)
	assert.Equal(t, int64(9), alert.ObservedQuantity)
	assert.Equal(t, int64(10), alert.Threshold)
	assert.False(t, alert.Acknowledged)

	events := dispatcher.all()
	require.Len(t, events, 1)
	assert.Equal(t, "seller-1", events[0].RecipientID, "la alerta va al dueño de la línea")
	assert.Equal(t, entity.CategoryLowStockAlert, events[0].Category)
	assert.Equal(t, "stock_alert", events[0].ReferenceType)
	assert.Equal(t, alert.ID, events[0].ReferenceID)
	assert.Equal(t, entity.PriorityMedium, events[0].Priority)
}

func TestHandleChange_SinCruce_NoHaceNada(t *testing.T) {
	repo := newMemAlertRepo()
	dispatcher := &captureDispatcher{}
	monitor := alerting.NewMonitor(repo, dispatcher, logger.Nop())

	// Del mismo lado del umbral: nada.
	monitor.HandleChange(context.Background(), changeEvent(9, 7, ptr(10), nil))
	// Sin umbrales configurados y sin llegar a cero: nada.
	monitor.HandleChange(context.Background(), changeEvent(100, 1, nil, nil))

	assert.Equal(t, 0, repo.count())
	assert.Empty(t, dispatcher.all())
}

func TestHandleChange_Agotamiento_PrioridadAlta(t *testing.T) {
	repo := newMemAlertRepo()
	dispatcher := &captureDispatcher{}
	monitor := alerting.NewMonitor(repo, dispatcher, logger.Nop())

	monitor.HandleChange(context.Background(), changeEvent(5, 0, ptr(10), nil))

	alert := repo.single()
	assert.Equal(t, entity.AlertOutOfStock, alert.AlertType)
	assert.Equal(t, int64(0), alert.Threshold)

	events := dispatcher.all()
	require.Len(t, events, 1)
	assert.Equal(t, entity.PriorityHigh, events[0].Priority)
}

func TestHandleChange_Overstock(t *testing.T) {
	repo := newMemAlertRepo()
	dispatcher := &captureDispatcher{}
	monitor := alerting.NewMonitor(repo, dispatcher, logger.Nop())

	monitor.HandleChange(context.Background(), changeEvent(95, 120, nil, ptr(100)))

	alert := repo.single()
	assert.Equal(t, entity.AlertOverstock, alert.AlertType)
	assert.Equal(t, int64(100), alert.Threshold)
}

func TestHandleChange_FalloDelDispatcher_LaAlertaSobrevive(t *testing.T) {
	repo := newMemAlertRepo()
	dispatcher := &captureDispatcher{err: errors.New("router caído")}
	monitor := alerting.NewMonitor(repo, dispatcher, logger.Nop())

	monitor.HandleChange(context.Background(), changeEvent(100, 9, ptr(10), nil))

	assert.Equal(t, 1, repo.count(),
		"la alerta persiste aunque el fan-out falle; se recupera por polling")
}

// ──────────────────────────────────────────────────────────────────────────────
// UseCase — listado y reconocimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestAcknowledge_SoloElDueno(t *testing.T) {
	repo := newMemAlertRepo()
	monitor := alerting.NewMonitor(repo, &captureDispatcher{}, logger.Nop())
	monitor.HandleChange(context.Background(), changeEvent(100, 9, ptr(10), nil))
	alert := repo.single()

	uc := alerting.NewUseCase(repo)

	err := uc.Acknowledge(context.Background(), alert.ID, "otro-vendedor")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Acknowledge(context.Background(), alert.ID, "seller-1"))
	got, _ := repo.GetByID(context.Background(), alert.ID)
	assert.True(t, got.Acknowledged)
	assert.Equal(t, "seller-1", got.AcknowledgedBy)
}

func TestAcknowledge_Repetido_EsNoOp(t *testing.T) {
	repo := newMemAlertRepo()
	monitor := alerting.NewMonitor(repo, &captureDispatcher{}, logger.Nop())
	monitor.HandleChange(context.Background(), changeEvent(100, 9, ptr(10), nil))
	alert := repo.single()

	uc := alerting.NewUseCase(repo)
	require.NoError(t, uc.Acknowledge(context.Background(), alert.ID, "seller-1"))
	first, _ := repo.GetByID(context.Background(), alert.ID)

	require.NoError(t, uc.Acknowledge(context.Background(), alert.ID, "seller-1"))
	second, _ := repo.GetByID(context.Background(), alert.ID)
	assert.Equal(t, first.AcknowledgedAt, second.AcknowledgedAt, "el reconocimiento no se re-timestampea")
}

func TestAcknowledge_AlertaInexistente(t *testing.T) {
	uc := alerting.NewUseCase(newMemAlertRepo())
	err := uc.Acknowledge(context.Background(), "no-existe", "seller-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorReconocimiento(t *testing.T) {
	repo := newMemAlertRepo()
	monitor := alerting.NewMonitor(repo, &captureDispatcher{}, logger.Nop())
	monitor.HandleChange(context.Background(), changeEvent(100, 9, ptr(10), nil))
	monitor.HandleChange(context.Background(), changeEvent(9, 50, ptr(10), nil))  // reposición: sin alerta
	monitor.HandleChange(context.Background(), changeEvent(50, 8, ptr(10), nil))  // nueva caída: alerta nueva
	require.Equal(t, 2, repo.count())

	uc := alerting.NewUseCase(repo)
	pending, err := uc.List(context.Background(), "seller-1", false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, uc.Acknowledge(context.Background(), pending[0].ID, "seller-1"))
	pending, _ = uc.List(context.Background(), "seller-1", false, 20, 0)
	acked, _ := uc.List(context.Background(), "seller-1", true, 20, 0)
	assert.Len(t, pending, 1)
	assert.Len(t, acked, 1)
}
