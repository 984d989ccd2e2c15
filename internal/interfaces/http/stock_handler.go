package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linka-market/stock-core/internal/application/dto"
	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

func keyFromQuery(c *fiber.Ctx) entity.StockKey {
	return entity.StockKey{
		ProductID:   c.Query("product_id"),
		VariantID:   c.Query("variant_id"),
		WarehouseID: c.Query("warehouse_id"),
	}
}

// RegisterMovement godoc
// @Summary      Registrar un movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, kind, delta, unit_cost (recepciones)"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, mov, err := h.uc.ApplyMovement(c.Context(), ledger.MovementInput{
		SellerID: userID,
		Key: entity.StockKey{
			ProductID:   in.ProductID,
			VariantID:   in.VariantID,
			WarehouseID: in.WarehouseID,
		},
		Kind:      in.Kind,
		Delta:     in.Delta,
		Reference: in.Reference,
		Actor:     userID,
		Notes:     in.Notes,
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"line":     dto.NewStockLineResponse(line),
		"movement": dto.NewStockMovementResponse(mov),
	})
}

// Transfer godoc
// @Summary      Transferir stock entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Transfer(c.Context(), ledger.TransferInput{
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Actor:           GetUserID(c),
		Notes:           in.Reference,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "transferencia aplicada"})
}

// ConfigureThresholds godoc
// @Summary      Configurar umbrales de alerta de una línea
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Param        body  body  dto.ConfigureThresholdsRequest  true  "umbrales (null = sin umbral)"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/thresholds [put]
func (h *StockHandler) ConfigureThresholds(c *fiber.Ctx) error {
	var in dto.ConfigureThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.ConfigureThresholds(c.Context(), ledger.ThresholdsInput{
		Key:               keyFromQuery(c),
		LowStockThreshold: in.LowStockThreshold,
		ReorderPoint:      in.ReorderPoint,
		MaxStockLevel:     in.MaxStockLevel,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "umbrales actualizados"})
}

// GetLine godoc
// @Summary      Consultar una línea de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        variant_id    query  string  false  "Variante"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.StockLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/lines [get]
func (h *StockHandler) GetLine(c *fiber.Ctx) error {
	line, err := h.uc.GetLine(c.Context(), keyFromQuery(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewStockLineResponse(line))
}

// ListMovements godoc
// @Summary      Historial de movimientos de una línea
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movs, err := h.uc.ListMovements(c.Context(), keyFromQuery(c), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for i := range movs {
		out = append(out, dto.NewStockMovementResponse(&movs[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// ListMyLines godoc
// @Summary      Líneas de stock del vendedor autenticado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockLineResponse
// @Router       /api/stock/lines/mine [get]
func (h *StockHandler) ListMyLines(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	lines, err := h.uc.ListLinesBySeller(c.Context(), GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.StockLineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, dto.NewStockLineResponse(&lines[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "lines": out})
}

// Archive godoc
// @Summary      Archivar una línea de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/lines [delete]
func (h *StockHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.Archive(c.Context(), keyFromQuery(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "línea archivada"})
}
