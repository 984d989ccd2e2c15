package repository

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// NotificationRepository acceso a las notificaciones por destinatario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	// MarkRead marca una notificación del destinatario. Devuelve false si no existe o ya estaba leída.
	MarkRead(ctx context.Context, id, recipientID string, at time.Time) (bool, error)
	// MarkAllRead marca todas las no leídas del destinatario y devuelve cuántas cambió.
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)
}

// PreferenceRepository acceso a las preferencias de notificación.
type PreferenceRepository interface {
	// Get devuelve las preferencias del usuario o nil si nunca las configuró
	// (el caller aplica DefaultPreferences).
	Get(ctx context.Context, userID string) (*entity.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *entity.NotificationPreferences) error
}
