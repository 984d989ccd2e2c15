package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linka-market/stock-core/internal/application/alerting"
	"github.com/linka-market/stock-core/internal/application/dto"
)

// AlertHandler maneja las alertas de stock del vendedor (protegido).
type AlertHandler struct {
	uc *alerting.UseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerting.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Alertas de stock del vendedor autenticado
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        acknowledged  query  bool  false  "true = reconocidas (default: pendientes)"
// @Success      200  {array}  dto.StockAlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	acknowledged := c.QueryBool("acknowledged", false)

	alerts, err := h.uc.List(c.Context(), GetUserID(c), acknowledged, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.StockAlertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, dto.NewStockAlertResponse(&alerts[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// Acknowledge godoc
// @Summary      Reconocer una alerta
// @Description  Idempotente: reconocer dos veces no cambia nada.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Alerta"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/ack [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	if err := h.uc.Acknowledge(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "alerta reconocida"})
}
