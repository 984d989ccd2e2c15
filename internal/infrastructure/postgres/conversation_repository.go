package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo implementación sobre PostgreSQL (usable con pool o tx).
type ConversationRepo struct {
	q Querier
}

// NewConversationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConversationRepository(q Querier) *ConversationRepo {
	return &ConversationRepo{q: q}
}

const conversationColumns = `id, participant_a, participant_b, order_id, product_id, pair_key,
	last_message_at, last_message_preview, created_at`

func scanConversation(row pgx.Row) (*entity.Conversation, error) {
	var c entity.Conversation
	err := row.Scan(
		&c.ID, &c.ParticipantA, &c.ParticipantB, &c.OrderID, &c.ProductID, &c.PairKey,
		&c.LastMessageAt, &c.LastMessagePreview, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	return &c, nil
}

// Create persiste una conversación. La clave canónica tiene constraint único:
// una carrera de creación se reporta como domain.ErrConflict para que el caller relea.
func (r *ConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	query := `
		INSERT INTO conversations (id, participant_a, participant_b, order_id, product_id, pair_key,
			last_message_at, last_message_preview, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		conv.ID, conv.ParticipantA, conv.ParticipantB, conv.OrderID, conv.ProductID, conv.PairKey,
		conv.LastMessageAt, conv.LastMessagePreview, conv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

// GetByID obtiene la conversación por id.
func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`
	return scanConversation(r.q.QueryRow(ctx, query, id))
}

// GetByPairKey obtiene la conversación por su clave canónica.
func (r *ConversationRepo) GetByPairKey(ctx context.Context, pairKey string) (*entity.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE pair_key = $1`
	return scanConversation(r.q.QueryRow(ctx, query, pairKey))
}

// UpdateLastMessage actualiza timestamp y preview del último mensaje.
func (r *ConversationRepo) UpdateLastMessage(ctx context.Context, id string, at time.Time, preview string) error {
	query := `UPDATE conversations SET last_message_at = $1, last_message_preview = $2 WHERE id = $3`
	tag, err := r.q.Exec(ctx, query, at, preview, id)
	if err != nil {
		return fmt.Errorf("update last message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByParticipant lista los hilos del usuario, actividad más reciente primero.
func (r *ConversationRepo) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]entity.Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []entity.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
