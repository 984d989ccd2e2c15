package ledger

import "github.com/linka-market/stock-core/internal/domain/entity"

// Thresholds son los umbrales configurados de una línea de stock.
// Punteros nil = umbral no configurado.
type Thresholds struct {
	LowStock *int64
	MaxStock *int64
}

// ThresholdsOf extrae los umbrales de una línea.
func ThresholdsOf(line *entity.StockLine) Thresholds {
	return Thresholds{LowStock: line.LowStockThreshold, MaxStock: line.MaxStockLevel}
}

// Crossing es el resultado de evaluar una mutación del ledger: qué alerta
// (si alguna) representa el cambio de available.
type Crossing struct {
	AlertType string
	Threshold int64 // umbral cruzado; 0 para out_of_stock
}

// Detect decide si la transición de available (before -> after) constituye un
// cruce de umbral que amerita alerta. La regla es por flanco, no por nivel:
// una venta que deja available del mismo lado del umbral no genera nada, lo
// que evita una tormenta de alertas cuando el stock ya está bajo.
//
//   - out_of_stock: before > 0 y after == 0 (prevalece sobre low_stock si ambas aplican)
//   - low_stock:    before > umbral y after <= umbral, con after > 0
//   - overstock:    before <= máximo y after > máximo
func Detect(before, after int64, th Thresholds) (Crossing, bool) {
	if before == after {
		return Crossing{}, false
	}
	if before > 0 && after == 0 {
		return Crossing{AlertType: entity.AlertOutOfStock, Threshold: 0}, true
	}
	if th.LowStock != nil && after > 0 && before > *th.LowStock && after <= *th.LowStock {
		return Crossing{AlertType: entity.AlertLowStock, Threshold: *th.LowStock}, true
	}
	if th.MaxStock != nil && before <= *th.MaxStock && after > *th.MaxStock {
		return Crossing{AlertType: entity.AlertOverstock, Threshold: *th.MaxStock}, true
	}
	return Crossing{}, false
}
