package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

func ptr(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Detect — detección por flanco de cruces de umbral
// ──────────────────────────────────────────────────────────────────────────────

func TestDetect_CruceDescendente_GeneraLowStock(t *testing.T) {
	th := Thresholds{LowStock: ptr(10)}

	crossing, ok := Detect(100, 9, th)
	require.True(t, ok, "bajar de 100 a 9 con umbral 10 debe generar alerta")
	assert.Equal(t, entity.AlertLowStock, crossing.AlertType)
	assert.Equal(t, int64(10), crossing.Threshold)
}

func TestDetect_CruceExactoAlUmbral_GeneraLowStock(t *testing.T) {
	th := Thresholds{LowStock: ptr(10)}

	crossing, ok := Detect(11, 10, th)
	require.True(t, ok, "after == umbral cuenta como cruce (after <= umbral)")
	assert.Equal(t, entity.AlertLowStock, crossing.AlertType)
}

func TestDetect_MovimientoDelMismoLado_NoGeneraNada(t *testing.T) {
	th := Thresholds{LowStock: ptr(10)}

	// Ya estaba bajo el umbral: ventas sucesivas no deben generar tormenta de alertas.
	_, ok := Detect(9, 7, th)
	assert.False(t, ok, "9 -> 7 sigue del mismo lado del umbral")

	// Del lado alto tampoco.
	_, ok = Detect(50, 20, th)
	assert.False(t, ok, "50 -> 20 no cruza el umbral 10")
}

func TestDetect_SinCambioDeAvailable_NoGeneraNada(t *testing.T) {
	th := Thresholds{LowStock: ptr(10)}
	_, ok := Detect(10, 10, th)
	assert.False(t, ok)
}

func TestDetect_LlegarACero_PrevaleceOutOfStock(t *testing.T) {
	// Con umbral 10, pasar de 5 a 0 cruza "low" y "cero" a la vez:
	// out_of_stock debe prevalecer.
	th := Thresholds{LowStock: ptr(10)}

	crossing, ok := Detect(5, 0, th)
	require.True(t, ok)
	assert.Equal(t, entity.AlertOutOfStock, crossing.AlertType)
	assert.Equal(t, int64(0), crossing.Threshold)
}

func TestDetect_OutOfStockSinUmbralConfigurado(t *testing.T) {
	// El agotamiento se detecta aunque la línea no tenga umbrales.
	crossing, ok := Detect(3, 0, Thresholds{})
	require.True(t, ok)
	assert.Equal(t, entity.AlertOutOfStock, crossing.AlertType)
}

func TestDetect_ReposicionQueVuelveABajar_GeneraNuevaAlerta(t *testing.T) {
	th := Thresholds{LowStock: ptr(10)}

	// Primer cruce.
	_, ok := Detect(100, 9, th)
	require.True(t, ok)

	// Reposición por encima del umbral (subir no genera low_stock).
	_, ok = Detect(9, 50, th)
	assert.False(t, ok)

	// Nueva caída: flanco nuevo, alerta nueva.
	crossing, ok := Detect(50, 8, th)
	require.True(t, ok)
	assert.Equal(t, entity.AlertLowStock, crossing.AlertType)
}

func TestDetect_SuperarMaximo_GeneraOverstock(t *testing.T) {
	th := Thresholds{MaxStock: ptr(100)}

	crossing, ok := Detect(95, 120, th)
	require.True(t, ok)
	assert.Equal(t, entity.AlertOverstock, crossing.AlertType)
	assert.Equal(t, int64(100), crossing.Threshold)

	// Ya estaba por encima: no repetir.
	_, ok = Detect(120, 130, th)
	assert.False(t, ok)
}

func TestDetect_SinUmbrales_SoloDetectaAgotamiento(t *testing.T) {
	_, ok := Detect(100, 1, Thresholds{})
	assert.False(t, ok, "sin umbrales configurados no hay low_stock ni overstock")
}

func TestThresholdsOf_ExtraeLosUmbralesDeLaLinea(t *testing.T) {
	line := &entity.StockLine{LowStockThreshold: ptr(5), MaxStockLevel: ptr(50)}
	th := ThresholdsOf(line)
	require.NotNil(t, th.LowStock)
	assert.Equal(t, int64(5), *th.LowStock)
	require.NotNil(t, th.MaxStock)
	assert.Equal(t, int64(50), *th.MaxStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// WeightedAverageCost — costo promedio ponderado en recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost_PromediaPorCantidad(t *testing.T) {
	// 10 unidades a 2.00 + 10 unidades a 4.00 = promedio 3.00
	got := WeightedAverageCost(10, decimal.NewFromInt(2), 10, decimal.NewFromInt(4))
	assert.True(t, got.Equal(decimal.NewFromInt(3)), "esperaba 3.00, obtuve %s", got)
}

func TestWeightedAverageCost_SinExistenciasPrevias_UsaElCostoDeLaRecepcion(t *testing.T) {
	got := WeightedAverageCost(0, decimal.NewFromInt(99), 5, decimal.RequireFromString("1.25"))
	assert.True(t, got.Equal(decimal.RequireFromString("1.25")))
}

func TestWeightedAverageCost_RecepcionCero_NoCambiaElCosto(t *testing.T) {
	current := decimal.RequireFromString("7.5000")
	got := WeightedAverageCost(10, current, 0, decimal.NewFromInt(1))
	assert.True(t, got.Equal(current))
}

func TestWeightedAverageCost_RedondeaACuatroDecimales(t *testing.T) {
	// 3 a 1.00 + 3 a 2.00 = 1.5 exacto; 1 a 1.00 + 2 a 2.00 = 1.6667
	got := WeightedAverageCost(1, decimal.NewFromInt(1), 2, decimal.NewFromInt(2))
	assert.True(t, got.Equal(decimal.RequireFromString("1.6667")), "obtuve %s", got)
}
