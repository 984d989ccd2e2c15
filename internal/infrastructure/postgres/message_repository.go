package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo implementación sobre PostgreSQL (usable con pool o tx).
type MessageRepo struct {
	q Querier
}

// NewMessageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMessageRepository(q Querier) *MessageRepo {
	return &MessageRepo{q: q}
}

// Create persiste un mensaje.
func (r *MessageRepo) Create(ctx context.Context, msg *entity.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, type, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Type, msg.Content, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListByConversation devuelve los mensajes del hilo, más recientes primero.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]entity.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, type, content, read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Type, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkReadExceptSender marca como leídos los mensajes no enviados por userID.
// Devuelve cuántos cambió (0 si ya estaba todo leído: idempotente).
func (r *MessageRepo) MarkReadExceptSender(ctx context.Context, conversationID, userID string) (int64, error) {
	query := `
		UPDATE messages SET read = true
		WHERE conversation_id = $1 AND sender_id <> $2 AND read = false`
	tag, err := r.q.Exec(ctx, query, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnreadForUser cuenta los mensajes del hilo que userID aún no leyó.
func (r *MessageRepo) CountUnreadForUser(ctx context.Context, conversationID, userID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM messages WHERE conversation_id = $1 AND sender_id <> $2 AND read = false`,
		conversationID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}
