package dto

import (
	"time"

	"github.com/linka-market/stock-core/internal/application/messaging"
	"github.com/linka-market/stock-core/internal/domain/entity"
)

// StartConversationRequest body para POST /api/conversations.
type StartConversationRequest struct {
	OtherUserID string `json:"other_user_id"`
	OrderID     string `json:"order_id,omitempty"`
	ProductID   string `json:"product_id,omitempty"`
}

// SendMessageRequest body para POST /api/conversations/:id/messages.
type SendMessageRequest struct {
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

// ConversationResponse proyección de un hilo, con no leídos del consultante.
type ConversationResponse struct {
	ID                 string     `json:"id"`
	OtherParticipant   string     `json:"other_participant"`
	OrderID            string     `json:"order_id,omitempty"`
	ProductID          string     `json:"product_id,omitempty"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	LastMessagePreview string     `json:"last_message_preview,omitempty"`
	UnreadCount        int64      `json:"unread_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewConversationResponse mapea el hilo a su proyección, relativa a viewerID.
func NewConversationResponse(conv *entity.Conversation, viewerID string, unread int64) ConversationResponse {
	return ConversationResponse{
		ID:                 conv.ID,
		OtherParticipant:   conv.OtherParticipant(viewerID),
		OrderID:            conv.OrderID,
		ProductID:          conv.ProductID,
		LastMessageAt:      conv.LastMessageAt,
		LastMessagePreview: conv.LastMessagePreview,
		UnreadCount:        unread,
		CreatedAt:          conv.CreatedAt,
	}
}

// NewConversationListResponse mapea las vistas del caso de uso.
func NewConversationListResponse(views []messaging.ConversationView, viewerID string) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(views))
	for i := range views {
		out = append(out, NewConversationResponse(&views[i].Conversation, viewerID, views[i].UnreadCount))
	}
	return out
}

// MessageResponse proyección de un mensaje.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessageResponse mapea la entidad a su proyección HTTP.
func NewMessageResponse(msg *entity.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Type:           msg.Type,
		Content:        msg.Content,
		Read:           msg.Read,
		CreatedAt:      msg.CreatedAt,
	}
}
