package messaging

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/domain/repository"
	"github.com/linka-market/stock-core/pkg/logger"
)

// previewLimit corta el preview de conversación en runas, no bytes.
const previewLimit = 120

// maxMessageLength límite de contenido por mensaje.
const maxMessageLength = 4000

// Dispatcher es el contrato hacia el router de notificaciones.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev notification.Event) error
}

// ConversationView agrega a cada conversación el conteo de no leídos del consultante.
type ConversationView struct {
	Conversation entity.Conversation
	UnreadCount  int64
}

// UseCase mensajería 1:1 entre compradores y vendedores.
type UseCase struct {
	txRunner      TxRunner
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	dispatcher    Dispatcher
	forkByProduct bool
	log           *logger.Logger
}

// NewUseCase construye el caso de uso de mensajería.
func NewUseCase(
	txRunner TxRunner,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	dispatcher Dispatcher,
	forkByProduct bool,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		conversations: conversations,
		messages:      messages,
		dispatcher:    dispatcher,
		forkByProduct: forkByProduct,
		log:           log,
	}
}

// StartOrGet devuelve la conversación del par (con su contexto de orden) o la
// crea si no existe. Dos llamadas concurrentes para el mismo par convergen a la
// misma fila: la clave canónica es única y el perdedor de la carrera relee.
func (uc *UseCase) StartOrGet(ctx context.Context, userID, otherID, orderID, productID string) (*entity.Conversation, error) {
	if userID == "" || otherID == "" {
		return nil, domain.ErrInvalidInput
	}
	if userID == otherID {
		return nil, domain.ErrInvalidInput
	}

	pairKey := entity.ConversationPairKey(userID, otherID, orderID, productID, uc.forkByProduct)

	conv, err := uc.conversations.GetByPairKey(ctx, pairKey)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	a, b := entity.CanonicalPair(userID, otherID)
	conv = &entity.Conversation{
		ID:           uuid.New().String(),
		ParticipantA: a,
		ParticipantB: b,
		OrderID:      orderID,
		ProductID:    productID,
		PairKey:      pairKey,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.conversations.Create(ctx, conv); err != nil {
		// Carrera de creación: otro request insertó la misma clave primero.
		if errors.Is(err, domain.ErrConflict) {
			return uc.conversations.GetByPairKey(ctx, pairKey)
		}
		return nil, err
	}
	return conv, nil
}

// SendMessage valida, persiste el mensaje y actualiza el preview en una sola
// transacción, y notifica al otro participante después del commit.
func (uc *UseCase) SendMessage(ctx context.Context, conversationID, senderID, msgType, content string) (*entity.Message, error) {
	if content == "" || utf8.RuneCountInString(content) > maxMessageLength {
		return nil, domain.ErrInvalidInput
	}
	switch msgType {
	case "":
		msgType = entity.MessageText
	case entity.MessageText, entity.MessageMedia, entity.MessageSystem:
	default:
		return nil, domain.ErrInvalidInput
	}

	conv, err := uc.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	msg := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Type:           msgType,
		Content:        content,
		CreatedAt:      now,
	}

	err = uc.txRunner.RunMessaging(ctx, func(convs repository.ConversationRepository, msgs repository.MessageRepository) error {
		if err := msgs.Create(ctx, msg); err != nil {
			return err
		}
		return convs.UpdateLastMessage(ctx, conv.ID, now, preview(content))
	})
	if err != nil {
		return nil, err
	}

	recipient := conv.OtherParticipant(senderID)
	if err := uc.dispatcher.Dispatch(ctx, notification.Event{
		RecipientID:   recipient,
		Category:      entity.CategoryMessageReceived,
		Title:         "Nuevo mensaje",
		Body:          preview(content),
		ReferenceType: "conversation",
		ReferenceID:   conv.ID,
		Priority:      entity.PriorityMedium,
	}); err != nil {
		// El mensaje ya está persistido; el destinatario lo ve al abrir el hilo.
		uc.log.Error().Err(err).Str("conversation_id", conv.ID).Msg("mensajería: dispatch de notificación")
	}

	return msg, nil
}

// ListConversations devuelve los hilos del usuario, más recientes primero,
// con el conteo de no leídos de cada uno.
func (uc *UseCase) ListConversations(ctx context.Context, userID string, limit, offset int) ([]ConversationView, error) {
	convs, err := uc.conversations.ListByParticipant(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		unread, err := uc.messages.CountUnreadForUser(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, ConversationView{Conversation: conv, UnreadCount: unread})
	}
	return views, nil
}

// ListMessages devuelve los mensajes del hilo. Solo participantes.
func (uc *UseCase) ListMessages(ctx context.Context, conversationID, userID string, limit, offset int) ([]entity.Message, error) {
	conv, err := uc.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, domain.ErrForbidden
	}
	return uc.messages.ListByConversation(ctx, conversationID, limit, offset)
}

// MarkRead marca como leídos los mensajes del hilo que userID no envió.
// Idempotente: repetirlo devuelve cero cambios.
func (uc *UseCase) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	conv, err := uc.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if !conv.HasParticipant(userID) {
		return 0, domain.ErrForbidden
	}
	return uc.messages.MarkReadExceptSender(ctx, conversationID, userID)
}

// preview recorta el contenido para el listado de conversaciones.
func preview(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit-1]) + "…"
}
