package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/stock/movements.
type RegisterMovementRequest struct {
	ProductID   string           `json:"product_id"`
	VariantID   string           `json:"variant_id,omitempty"`
	WarehouseID string           `json:"warehouse_id,omitempty"`
	Kind        string           `json:"kind"`
	Delta       int64            `json:"delta"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	VariantID       string `json:"variant_id,omitempty"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Reference       string `json:"reference,omitempty"`
}

// ConfigureThresholdsRequest body para PUT /api/stock/lines/:id/thresholds.
type ConfigureThresholdsRequest struct {
	LowStockThreshold *int64 `json:"low_stock_threshold"`
	ReorderPoint      *int64 `json:"reorder_point"`
	MaxStockLevel     *int64 `json:"max_stock_level"`
}

// StockLineResponse proyección de una línea de stock.
type StockLineResponse struct {
	ID                string          `json:"id"`
	SellerID          string          `json:"seller_id"`
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	WarehouseID       string          `json:"warehouse_id,omitempty"`
	OnHand            int64           `json:"on_hand"`
	Reserved          int64           `json:"reserved"`
	Available         int64           `json:"available"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
	LowStockThreshold *int64          `json:"low_stock_threshold,omitempty"`
	ReorderPoint      *int64          `json:"reorder_point,omitempty"`
	MaxStockLevel     *int64          `json:"max_stock_level,omitempty"`
	LastRestockAt     *time.Time      `json:"last_restock_at,omitempty"`
	Archived          bool            `json:"archived"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewStockLineResponse mapea la entidad a su proyección HTTP.
func NewStockLineResponse(line *entity.StockLine) StockLineResponse {
	return StockLineResponse{
		ID:                line.ID,
		SellerID:          line.SellerID,
		ProductID:         line.ProductID,
		VariantID:         line.VariantID,
		WarehouseID:       line.WarehouseID,
		OnHand:            line.OnHand,
		Reserved:          line.Reserved,
		Available:         line.Available(),
		CostPerUnit:       line.CostPerUnit,
		LowStockThreshold: line.LowStockThreshold,
		ReorderPoint:      line.ReorderPoint,
		MaxStockLevel:     line.MaxStockLevel,
		LastRestockAt:     line.LastRestockAt,
		Archived:          line.Archived,
		UpdatedAt:         line.UpdatedAt,
	}
}

// StockMovementResponse proyección de un asiento del ledger.
type StockMovementResponse struct {
	ID             string          `json:"id"`
	StockLineID    string          `json:"stock_line_id"`
	Kind           string          `json:"kind"`
	Delta          int64           `json:"delta"`
	QuantityBefore int64           `json:"quantity_before"`
	QuantityAfter  int64           `json:"quantity_after"`
	ReservedBefore int64           `json:"reserved_before"`
	ReservedAfter  int64           `json:"reserved_after"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Reference      string          `json:"reference,omitempty"`
	Actor          string          `json:"actor,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewStockMovementResponse mapea la entidad a su proyección HTTP.
func NewStockMovementResponse(mov *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             mov.ID,
		StockLineID:    mov.StockLineID,
		Kind:           mov.Kind,
		Delta:          mov.Delta,
		QuantityBefore: mov.QuantityBefore,
		QuantityAfter:  mov.QuantityAfter,
		ReservedBefore: mov.ReservedBefore,
		ReservedAfter:  mov.ReservedAfter,
		UnitCost:       mov.UnitCost,
		Reference:      mov.Reference,
		Actor:          mov.Actor,
		Notes:          mov.Notes,
		CreatedAt:      mov.CreatedAt,
	}
}
