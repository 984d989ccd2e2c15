package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linka-market/stock-core/internal/application/dto"
	"github.com/linka-market/stock-core/internal/application/messaging"
)

// MessagingHandler maneja la mensajería 1:1 (protegido).
type MessagingHandler struct {
	uc *messaging.UseCase
}

// NewMessagingHandler construye el handler.
func NewMessagingHandler(uc *messaging.UseCase) *MessagingHandler {
	return &MessagingHandler{uc: uc}
}

// StartConversation godoc
// @Summary      Abrir (o recuperar) la conversación con otro usuario
// @Description  La identidad del hilo es canónica: mismo par y misma orden
//
//	devuelven siempre la misma conversación, sin importar quién inició.
//
// @Tags         messaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartConversationRequest  true  "other_user_id, order_id opcional"
// @Success      200   {object}  dto.ConversationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/conversations [post]
func (h *MessagingHandler) StartConversation(c *fiber.Ctx) error {
	var in dto.StartConversationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	conv, err := h.uc.StartOrGet(c.Context(), userID, in.OtherUserID, in.OrderID, in.ProductID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewConversationResponse(conv, userID, 0))
}

// ListConversations godoc
// @Summary      Hilos del usuario autenticado
// @Tags         messaging
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConversationResponse
// @Router       /api/conversations [get]
func (h *MessagingHandler) ListConversations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	userID := GetUserID(c)
	views, err := h.uc.ListConversations(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"total": len(views), "conversations": dto.NewConversationListResponse(views, userID)})
}

// SendMessage godoc
// @Summary      Enviar un mensaje al hilo
// @Tags         messaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Conversación"
// @Param        body  body  dto.SendMessageRequest  true  "content, type opcional"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/messages [post]
func (h *MessagingHandler) SendMessage(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	msg, err := h.uc.SendMessage(c.Context(), c.Params("id"), GetUserID(c), in.Type, in.Content)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMessageResponse(msg))
}

// ListMessages godoc
// @Summary      Mensajes del hilo
// @Tags         messaging
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Conversación"
// @Success      200  {array}   dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/messages [get]
func (h *MessagingHandler) ListMessages(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	msgs, err := h.uc.ListMessages(c.Context(), c.Params("id"), GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "messages": out})
}

// MarkRead godoc
// @Summary      Marcar como leídos los mensajes recibidos del hilo
// @Description  Idempotente: repetirlo devuelve cero cambios.
// @Tags         messaging
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Conversación"
// @Success      200  {object}  map[string]int64
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/read [post]
func (h *MessagingHandler) MarkRead(c *fiber.Ctx) error {
	changed, err := h.uc.MarkRead(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"changed": changed})
}
