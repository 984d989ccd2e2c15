package notification_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []entity.Notification
}

func (r *memNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *memNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.rows {
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *memNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, recipientID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.rows {
		if n.ID == id && n.RecipientID == recipientID && !n.Read {
			r.rows[i].Read = true
			r.rows[i].ReadAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, recipientID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for i, n := range r.rows {
		if n.RecipientID == recipientID && !n.Read {
			r.rows[i].Read = true
			r.rows[i].ReadAt = &at
			changed++
		}
	}
	return changed, nil
}

func (r *memNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memPreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]entity.NotificationPreferences
}

func newMemPreferenceRepo() *memPreferenceRepo {
	return &memPreferenceRepo{prefs: map[string]entity.NotificationPreferences{}}
}

func (r *memPreferenceRepo) Get(_ context.Context, userID string) (*entity.NotificationPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *memPreferenceRepo) Upsert(_ context.Context, prefs *entity.NotificationPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[prefs.UserID] = *prefs
	return nil
}

type capturePusher struct {
	mu     sync.Mutex
	pushed []entity.Notification
	panics bool
}

func (p *capturePusher) Push(_ string, n entity.Notification) {
	if p.panics {
		panic("canal saturado")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, n)
}

func (p *capturePusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pushed)
}

func buildRouter() (*notification.Router, *memNotificationRepo, *memPreferenceRepo, *capturePusher) {
	repo := &memNotificationRepo{}
	prefs := newMemPreferenceRepo()
	pusher := &capturePusher{}
	return notification.NewRouter(repo, prefs, pusher, logger.Nop()), repo, prefs, pusher
}

func sampleEvent() notification.Event {
	return notification.Event{
		RecipientID:   "user-1",
		Category:      entity.CategoryOrderPlaced,
		Title:         "Nueva orden",
		Body:          "Recibiste la orden order-9",
		ReferenceType: "order",
		ReferenceID:   "order-9",
	}
}

// quietWindowAround devuelve una ventana de quiet hours que contiene a now.
func quietWindowAround(now time.Time) (string, string) {
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	return fmt.Sprintf("%02d:%02d", start.UTC().Hour(), start.UTC().Minute()),
		fmt.Sprintf("%02d:%02d", end.UTC().Hour(), end.UTC().Minute())
}

// ──────────────────────────────────────────────────────────────────────────────
// Dispatch
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatch_PersisteLaFilaYLuegoEmpuja(t *testing.T) {
	router, repo, _, pusher := buildRouter()

	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))

	require.Equal(t, 1, repo.count(), "la fila durable es el contrato")
	rows, _ := repo.ListByRecipient(context.Background(), "user-1", false, 20, 0)
	assert.Equal(t, entity.CategoryOrderPlaced, rows[0].Category)
	assert.Equal(t, "order", rows[0].ReferenceType)
	assert.Equal(t, entity.PriorityMedium, rows[0].Priority, "sin prioridad explícita se asume medium")
	assert.False(t, rows[0].Read)

	assert.Equal(t, 1, pusher.count())
}

func TestDispatch_PanicDelPusher_LaFilaSobrevive(t *testing.T) {
	router, repo, _, pusher := buildRouter()
	pusher.panics = true

	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()),
		"el push es best-effort: su pánico no sale del router")
	assert.Equal(t, 1, repo.count())
}

func TestDispatch_CategoriaDeshabilitada_CeroFilas(t *testing.T) {
	router, repo, prefRepo, pusher := buildRouter()
	p := entity.DefaultPreferences("user-1")
	p.OrderUpdates = false
	require.NoError(t, prefRepo.Upsert(context.Background(), p))

	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))

	assert.Equal(t, 0, repo.count(), "deshabilitado = cero filas, no filas ocultas")
	assert.Equal(t, 0, pusher.count())
}

func TestDispatch_SinPreferenciasGuardadas_AplicaDefaults(t *testing.T) {
	router, repo, _, _ := buildRouter()

	// Defaults: todo activo salvo promociones.
	ev := sampleEvent()
	ev.Category = entity.CategoryLowStockAlert
	require.NoError(t, router.Dispatch(context.Background(), ev))
	assert.Equal(t, 1, repo.count())
}

func TestDispatch_EntradaInvalida(t *testing.T) {
	router, _, _, _ := buildRouter()

	err := router.Dispatch(context.Background(), notification.Event{Category: entity.CategorySystem})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin destinatario")

	err = router.Dispatch(context.Background(), notification.Event{RecipientID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin categoría")
}

// ──────────────────────────────────────────────────────────────────────────────
// Quiet hours
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatch_EnQuietHours_DifiereElPushPeroPersiste(t *testing.T) {
	router, repo, prefRepo, pusher := buildRouter()
	p := entity.DefaultPreferences("user-1")
	p.QuietHoursStart, p.QuietHoursEnd = quietWindowAround(time.Now().UTC())
	require.NoError(t, prefRepo.Upsert(context.Background(), p))

	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))

	assert.Equal(t, 1, repo.count(), "la fila se persiste igual dentro de quiet hours")
	assert.Equal(t, 0, pusher.count(), "pero el push queda diferido")

	// Antes de que termine la ventana no hay nada que entregar.
	assert.Equal(t, 0, router.FlushDeferred(time.Now().UTC()))

	// Terminada la ventana, el push diferido sale exactamente una vez.
	assert.Equal(t, 1, router.FlushDeferred(time.Now().UTC().Add(2*time.Hour)))
	assert.Equal(t, 1, pusher.count())
	assert.Equal(t, 0, router.FlushDeferred(time.Now().UTC().Add(3*time.Hour)), "no se re-entrega")
}

func TestDispatch_UrgenteIgnoraQuietHours(t *testing.T) {
	router, _, prefRepo, pusher := buildRouter()
	p := entity.DefaultPreferences("user-1")
	p.QuietHoursStart, p.QuietHoursEnd = quietWindowAround(time.Now().UTC())
	require.NoError(t, prefRepo.Upsert(context.Background(), p))

	ev := sampleEvent()
	ev.Priority = entity.PriorityUrgent
	require.NoError(t, router.Dispatch(context.Background(), ev))

	assert.Equal(t, 1, pusher.count(), "urgent atraviesa la ventana")
}

// ──────────────────────────────────────────────────────────────────────────────
// UseCase — lecturas y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestList_DevuelveItemsYConteoDeNoLeidas(t *testing.T) {
	router, repo, _, _ := buildRouter()
	uc := notification.NewUseCase(repo, newMemPreferenceRepo())

	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))
	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))

	items, unread, err := uc.List(context.Background(), "user-1", false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), unread)

	ok, err := uc.MarkRead(context.Background(), items[0].ID, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.MarkRead(context.Background(), items[0].ID, "user-1")
	require.NoError(t, err)
	assert.False(t, ok, "marcar dos veces devuelve false")

	_, unread, _ = uc.List(context.Background(), "user-1", false, 20, 0)
	assert.Equal(t, int64(1), unread)
}

func TestMarkRead_DeOtroDestinatario_NoCambiaNada(t *testing.T) {
	router, repo, _, _ := buildRouter()
	uc := notification.NewUseCase(repo, newMemPreferenceRepo())

	require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))
	items, _, _ := uc.List(context.Background(), "user-1", false, 20, 0)

	ok, err := uc.MarkRead(context.Background(), items[0].ID, "intruso")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkAllRead_CuentaLosCambios(t *testing.T) {
	router, repo, _, _ := buildRouter()
	uc := notification.NewUseCase(repo, newMemPreferenceRepo())

	for i := 0; i < 3; i++ {
		require.NoError(t, router.Dispatch(context.Background(), sampleEvent()))
	}

	changed, err := uc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)

	changed, _ = uc.MarkAllRead(context.Background(), "user-1")
	assert.Equal(t, int64(0), changed)
}

func TestGetPreferences_SinConfigurar_DevuelveDefaults(t *testing.T) {
	uc := notification.NewUseCase(&memNotificationRepo{}, newMemPreferenceRepo())

	prefs, err := uc.GetPreferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", prefs.UserID)
	assert.True(t, prefs.StockAlerts)
	assert.False(t, prefs.Promotions)
}

func TestUpdatePreferences_PersisteElUpsert(t *testing.T) {
	prefRepo := newMemPreferenceRepo()
	uc := notification.NewUseCase(&memNotificationRepo{}, prefRepo)

	p := entity.DefaultPreferences("user-1")
	p.Messages = false
	require.NoError(t, uc.UpdatePreferences(context.Background(), p))

	got, err := uc.GetPreferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, got.Messages)
	assert.False(t, got.UpdatedAt.IsZero())
}
