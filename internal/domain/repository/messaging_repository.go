package repository

import (
	"context"
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// ConversationRepository acceso a conversaciones 1:1.
type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// GetByPairKey devuelve la conversación con esa clave canónica o domain.ErrNotFound.
	GetByPairKey(ctx context.Context, pairKey string) (*entity.Conversation, error)
	UpdateLastMessage(ctx context.Context, id string, at time.Time, preview string) error
	ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]entity.Conversation, error)
}

// MessageRepository acceso a mensajes.
type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]entity.Message, error)
	// MarkReadExceptSender marca como leídos los mensajes de la conversación no
	// enviados por userID y devuelve cuántos cambió (0 si ya estaba todo leído).
	MarkReadExceptSender(ctx context.Context, conversationID, userID string) (int64, error)
	CountUnreadForUser(ctx context.Context, conversationID, userID string) (int64, error)
}
