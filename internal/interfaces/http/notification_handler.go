package http

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/linka-market/stock-core/internal/application/dto"
	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/infrastructure/push"
)

// NotificationHandler maneja la bandeja de notificaciones y las preferencias (protegido).
type NotificationHandler struct {
	uc     *notification.UseCase
	router *notification.Router
	hub    *push.Hub
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.UseCase, router *notification.Router, hub *push.Hub) *NotificationHandler {
	return &NotificationHandler{uc: uc, router: router, hub: hub}
}

// List godoc
// @Summary      Notificaciones del usuario autenticado
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread_only  query  bool  false  "solo no leídas"
// @Success      200  {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	unreadOnly := c.QueryBool("unread_only", false)

	items, unread, err := h.uc.List(c.Context(), GetUserID(c), unreadOnly, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewNotificationResponse(&items[i]))
	}
	return c.JSON(dto.NotificationListResponse{Items: out, UnreadCount: unread})
}

// MarkRead godoc
// @Summary      Marcar una notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Notificación"
// @Success      200  {object}  map[string]bool
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	changed, err := h.uc.MarkRead(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"changed": changed})
}

// MarkAllRead godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	changed, err := h.uc.MarkAllRead(c.Context(), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"changed": changed})
}

// GetPreferences godoc
// @Summary      Preferencias de notificación del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PreferencesResponse
// @Router       /api/notifications/preferences [get]
func (h *NotificationHandler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.uc.GetPreferences(c.Context(), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewPreferencesResponse(prefs))
}

// UpdatePreferences godoc
// @Summary      Actualizar preferencias de notificación
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreferencesRequest  true  "toggles por categoría y quiet hours (UTC HH:MM)"
// @Success      200   {object}  dto.PreferencesResponse
// @Router       /api/notifications/preferences [put]
func (h *NotificationHandler) UpdatePreferences(c *fiber.Ctx) error {
	var in dto.PreferencesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	prefs := &entity.NotificationPreferences{
		UserID:          GetUserID(c),
		StockAlerts:     in.StockAlerts,
		OrderUpdates:    in.OrderUpdates,
		PaymentUpdates:  in.PaymentUpdates,
		DeliveryUpdates: in.DeliveryUpdates,
		Messages:        in.Messages,
		Promotions:      in.Promotions,
		QuietHoursStart: in.QuietHoursStart,
		QuietHoursEnd:   in.QuietHoursEnd,
	}
	if err := h.uc.UpdatePreferences(c.Context(), prefs); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewPreferencesResponse(prefs))
}

// Stream godoc
// @Summary      Stream en vivo de notificaciones (Server-Sent Events)
// @Description  Canal best-effort: lo persistido manda; un push perdido se
//
//	recupera consultando no leídas.
//
// @Tags         notifications
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	userID := GetUserID(c)
	ch, unsubscribe := h.hub.Subscribe(userID)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		for n := range ch {
			payload, err := json.Marshal(dto.NewNotificationResponse(&n))
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

// IngestEvent godoc
// @Summary      Ingerir un evento de negocio (solo servicios internos)
// @Description  Punto único de entrada al router: órdenes, pagos y entregas
//
//	empujan aquí sus eventos con la forma uniforme.
//
// @Tags         events
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IngestEventRequest  true  "recipient_id, category, title, body"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/events [post]
func (h *NotificationHandler) IngestEvent(c *fiber.Ctx) error {
	var in dto.IngestEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.router.Dispatch(c.Context(), notification.Event{
		RecipientID:   in.RecipientID,
		Category:      in.Category,
		Title:         in.Title,
		Body:          in.Body,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Priority:      in.Priority,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "evento aceptado"})
}
