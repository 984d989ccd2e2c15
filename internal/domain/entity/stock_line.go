package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica una línea de stock: producto + variante opcional + bodega opcional.
// Componentes vacíos significan "sin scope" (ej. producto sin variantes).
type StockKey struct {
	ProductID   string
	VariantID   string
	WarehouseID string
}

// String devuelve la representación canónica de la clave (para locks y particionado de eventos).
func (k StockKey) String() string {
	return k.ProductID + "|" + k.VariantID + "|" + k.WarehouseID
}

// StockLine representa la cantidad rastreada de un (producto, variante, bodega).
// Se crea en la primera recepción de stock y nunca se borra: se archiva, para
// que el historial de movimientos siga siendo auditable.
type StockLine struct {
	ID          string
	SellerID    string // dueño de la línea; destinatario de las alertas de stock
	ProductID   string
	VariantID   string
	WarehouseID string

	OnHand   int64
	Reserved int64

	CostPerUnit decimal.Decimal // costo promedio ponderado (se recalcula en cada recepción)

	LowStockThreshold *int64
	ReorderPoint      *int64
	MaxStockLevel     *int64

	LastRestockAt *time.Time
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key devuelve la clave de la línea.
func (l *StockLine) Key() StockKey {
	return StockKey{ProductID: l.ProductID, VariantID: l.VariantID, WarehouseID: l.WarehouseID}
}

// Available es la cantidad derivada disponible para nuevas reservas.
// Invariante: Reserved <= OnHand, por lo que Available nunca es negativo.
func (l *StockLine) Available() int64 {
	return l.OnHand - l.Reserved
}
