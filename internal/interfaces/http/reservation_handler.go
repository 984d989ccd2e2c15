package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/linka-market/stock-core/internal/application/dto"
	"github.com/linka-market/stock-core/internal/application/reservation"
	"github.com/linka-market/stock-core/internal/domain/entity"
)

// ReservationHandler maneja el protocolo de dos fases por HTTP (protegido).
type ReservationHandler struct {
	uc *reservation.UseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *reservation.UseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Tomar un hold de stock
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "product_id, quantity, reference (orden), ttl_seconds opcional"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Reserve(c.Context(), entity.StockKey{
		ProductID:   in.ProductID,
		VariantID:   in.VariantID,
		WarehouseID: in.WarehouseID,
	}, in.Quantity, in.Reference, time.Duration(in.TTLSeconds)*time.Second)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReservationResponse(res))
}

// Commit godoc
// @Summary      Confirmar un hold (deducción definitiva)
// @Description  Idempotente: repetir el commit de un token ya committed devuelve
//
//	el mismo resultado sin deducir de nuevo.
//
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Token de reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/commit [post]
func (h *ReservationHandler) Commit(c *fiber.Ctx) error {
	res, err := h.uc.Commit(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewReservationResponse(res))
}

// Release godoc
// @Summary      Liberar un hold (el stock vuelve a available)
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Token de reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	res, err := h.uc.Release(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewReservationResponse(res))
}
