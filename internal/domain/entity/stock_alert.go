package entity

import "time"

// Tipos de alerta de stock.
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
	AlertOverstock  = "overstock"
)

// StockAlert se crea solo cuando available cruza un umbral configurado
// (nunca por estar simplemente debajo del umbral). Se muta únicamente al
// reconocerla y no se borra automáticamente.
type StockAlert struct {
	ID          string
	StockLineID string
	SellerID    string
	AlertType   string

	ObservedQuantity int64 // available observado en el cruce
	Threshold        int64 // umbral cruzado (0 para out_of_stock)

	Acknowledged   bool
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
}
