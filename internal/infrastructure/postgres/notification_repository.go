package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)
var _ repository.PreferenceRepository = (*PreferenceRepo)(nil)

// NotificationRepo implementación sobre PostgreSQL (usable con pool o tx).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación por destinatario.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, category, title, body,
			reference_type, reference_id, priority, read, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.RecipientID, n.Category, n.Title, n.Body,
		n.ReferenceType, n.ReferenceID, n.Priority, n.Read, n.ReadAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient lista las notificaciones del destinatario, más recientes primero.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]entity.Notification, error) {
	query := `
		SELECT id, recipient_id, category, title, body,
			reference_type, reference_id, priority, read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1 AND ($2 = false OR read = false)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Category, &n.Title, &n.Body,
			&n.ReferenceType, &n.ReferenceID, &n.Priority, &n.Read, &n.ReadAt, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread cuenta las no leídas del destinatario.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND read = false`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marca una notificación del destinatario. Devuelve false si no existe o ya estaba leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string, at time.Time) (bool, error) {
	query := `
		UPDATE notifications SET read = true, read_at = $1
		WHERE id = $2 AND recipient_id = $3 AND read = false`
	tag, err := r.q.Exec(ctx, query, at, id, recipientID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkAllRead marca todas las no leídas del destinatario y devuelve cuántas cambió.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	query := `
		UPDATE notifications SET read = true, read_at = $1
		WHERE recipient_id = $2 AND read = false`
	tag, err := r.q.Exec(ctx, query, at, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PreferenceRepo implementación de preferencias sobre PostgreSQL.
type PreferenceRepo struct {
	q Querier
}

// NewPreferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPreferenceRepository(q Querier) *PreferenceRepo {
	return &PreferenceRepo{q: q}
}

// Get devuelve las preferencias del usuario o nil si nunca las configuró.
func (r *PreferenceRepo) Get(ctx context.Context, userID string) (*entity.NotificationPreferences, error) {
	query := `
		SELECT user_id, stock_alerts, order_updates, payment_updates, delivery_updates,
			messages, promotions, quiet_hours_start, quiet_hours_end, updated_at
		FROM notification_preferences WHERE user_id = $1`
	var p entity.NotificationPreferences
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.StockAlerts, &p.OrderUpdates, &p.PaymentUpdates, &p.DeliveryUpdates,
		&p.Messages, &p.Promotions, &p.QuietHoursStart, &p.QuietHoursEnd, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &p, nil
}

// Upsert inserta o actualiza las preferencias del usuario.
func (r *PreferenceRepo) Upsert(ctx context.Context, prefs *entity.NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, stock_alerts, order_updates, payment_updates,
			delivery_updates, messages, promotions, quiet_hours_start, quiet_hours_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			stock_alerts = EXCLUDED.stock_alerts,
			order_updates = EXCLUDED.order_updates,
			payment_updates = EXCLUDED.payment_updates,
			delivery_updates = EXCLUDED.delivery_updates,
			messages = EXCLUDED.messages,
			promotions = EXCLUDED.promotions,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		prefs.UserID, prefs.StockAlerts, prefs.OrderUpdates, prefs.PaymentUpdates,
		prefs.DeliveryUpdates, prefs.Messages, prefs.Promotions,
		prefs.QuietHoursStart, prefs.QuietHoursEnd, prefs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
