package notification

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

// UseCase proyecciones de lectura y toggles de estado sobre notificaciones y
// preferencias (el API del cliente consulta aquí; la escritura es del Router).
type UseCase struct {
	notifications repository.NotificationRepository
	preferences   repository.PreferenceRepository
}

// NewUseCase construye el caso de uso de lectura.
func NewUseCase(notifications repository.NotificationRepository, preferences repository.PreferenceRepository) *UseCase {
	return &UseCase{notifications: notifications, preferences: preferences}
}

// List devuelve las notificaciones del destinatario más su conteo de no leídas.
func (uc *UseCase) List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]entity.Notification, int64, error) {
	items, err := uc.notifications.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := uc.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

// MarkRead marca una notificación como leída. Devuelve false si no existe o ya estaba leída.
func (uc *UseCase) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	return uc.notifications.MarkRead(ctx, id, recipientID, time.Now().UTC())
}

// MarkAllRead marca todas las no leídas y devuelve cuántas cambió.
func (uc *UseCase) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return uc.notifications.MarkAllRead(ctx, recipientID, time.Now().UTC())
}

// GetPreferences devuelve las preferencias del usuario (defaults si nunca configuró).
func (uc *UseCase) GetPreferences(ctx context.Context, userID string) (*entity.NotificationPreferences, error) {
	prefs, err := uc.preferences.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return entity.DefaultPreferences(userID), nil
	}
	return prefs, nil
}

// UpdatePreferences upsert de las preferencias del usuario.
func (uc *UseCase) UpdatePreferences(ctx context.Context, prefs *entity.NotificationPreferences) error {
	prefs.UpdatedAt = time.Now().UTC()
	return uc.preferences.Upsert(ctx, prefs)
}
