package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/linka-market/stock-core/internal/application/dto"
	"github.com/linka-market/stock-core/internal/domain"
)

// errorJSON mapea los errores de dominio a su status y código HTTP.
// Los conflictos de estado (stock insuficiente, reserva cerrada) son 409:
// el request era válido pero el estado actual no lo permite.
func errorJSON(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrReservationClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RESERVATION_CLOSED", Message: "la reserva ya alcanzó un estado terminal distinto"})
	case errors.Is(err, domain.ErrInvariantViolation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVARIANT", Message: "la operación rompería el invariante de stock"})
	case errors.Is(err, domain.ErrLineArchived):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LINE_ARCHIVED", Message: "la línea de stock está archivada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
