package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
	"github.com/linka-market/stock-core/pkg/logger"
)

// Pusher entrega una notificación al canal en vivo del destinatario.
// Best-effort: el router nunca propaga sus fallos.
type Pusher interface {
	Push(recipientID string, n entity.Notification)
}

// Router expande cada evento de dominio en filas de notificación por
// destinatario, respetando preferencias por categoría y quiet hours.
// Contrato at-least-once: la fila se persiste antes de intentar cualquier
// push; un crash entre escritura y push puede duplicar el push pero nunca
// pierde la notificación (el cliente recupera consultando no leídas).
type Router struct {
	notifications repository.NotificationRepository
	preferences   repository.PreferenceRepository
	pusher        Pusher
	log           *logger.Logger

	mu       sync.Mutex
	deferred []deferredPush
}

// deferredPush es un push pospuesto por quiet hours, pendiente hasta readyAt.
type deferredPush struct {
	readyAt      time.Time
	notification entity.Notification
}

// NewRouter construye el router de notificaciones.
func NewRouter(
	notifications repository.NotificationRepository,
	preferences repository.PreferenceRepository,
	pusher Pusher,
	log *logger.Logger,
) *Router {
	return &Router{
		notifications: notifications,
		preferences:   preferences,
		pusher:        pusher,
		log:           log,
	}
}

// Dispatch procesa un evento: cero filas si la categoría está deshabilitada
// para el destinatario; si no, persiste la fila y luego intenta el push. Los
// fallos de push solo se loguean; la persistencia es el contrato.
func (r *Router) Dispatch(ctx context.Context, ev Event) error {
	if ev.RecipientID == "" || ev.Category == "" {
		return domain.ErrInvalidInput
	}

	prefs, err := r.preferences.Get(ctx, ev.RecipientID)
	if err != nil {
		return err
	}
	if prefs == nil {
		prefs = entity.DefaultPreferences(ev.RecipientID)
	}
	if !prefs.CategoryEnabled(ev.Category) {
		r.log.Debug().
			Str("recipient_id", ev.RecipientID).
			Str("category", ev.Category).
			Msg("notificación descartada por preferencias")
		return nil
	}

	now := time.Now().UTC()
	priority := ev.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	n := entity.Notification{
		ID:            uuid.New().String(),
		RecipientID:   ev.RecipientID,
		Category:      ev.Category,
		Title:         ev.Title,
		Body:          ev.Body,
		ReferenceType: ev.ReferenceType,
		ReferenceID:   ev.ReferenceID,
		Priority:      priority,
		CreatedAt:     now,
	}

	// Escritura durable primero; sin esto no hay notificación.
	if err := r.notifications.Create(ctx, &n); err != nil {
		return err
	}

	if prefs.InQuietHours(now) && priority != entity.PriorityUrgent {
		r.deferPush(prefs.QuietHoursEndsAt(now), n)
		return nil
	}

	r.push(n)
	return nil
}

// push intenta la entrega en vivo; cualquier pánico del canal queda contenido.
func (r *Router) push(n entity.Notification) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("notification_id", n.ID).Msg("push en vivo falló")
		}
	}()
	r.pusher.Push(n.RecipientID, n)
}

// deferPush guarda el push hasta el fin de la ventana de quiet hours.
// La fila ya está persistida: si el proceso muere, solo se pierde el push.
func (r *Router) deferPush(readyAt time.Time, n entity.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deferred = append(r.deferred, deferredPush{readyAt: readyAt, notification: n})
}

// FlushDeferred entrega los push diferidos cuya ventana ya terminó.
// Devuelve cuántos entregó.
func (r *Router) FlushDeferred(now time.Time) int {
	r.mu.Lock()
	var ready []entity.Notification
	var pending []deferredPush
	for _, d := range r.deferred {
		if !d.readyAt.After(now) {
			ready = append(ready, d.notification)
		} else {
			pending = append(pending, d)
		}
	}
	r.deferred = pending
	r.mu.Unlock()

	for _, n := range ready {
		r.push(n)
	}
	return len(ready)
}

// StartDeferredFlusher lanza el ticker que drena los push diferidos hasta que
// ctx se cancele.
func (r *Router) StartDeferredFlusher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.FlushDeferred(time.Now().UTC())
			}
		}
	}()
}
