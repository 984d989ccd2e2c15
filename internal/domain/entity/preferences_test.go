package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// CategoryEnabled
// ──────────────────────────────────────────────────────────────────────────────

func TestDefaultPreferences_TodoActivoSalvoPromociones(t *testing.T) {
	p := DefaultPreferences("user-1")
	assert.True(t, p.CategoryEnabled(CategoryLowStockAlert))
	assert.True(t, p.CategoryEnabled(CategoryOrderPlaced))
	assert.True(t, p.CategoryEnabled(CategoryPaymentFailed))
	assert.True(t, p.CategoryEnabled(CategoryDeliveryUpdate))
	assert.True(t, p.CategoryEnabled(CategoryMessageReceived))
	assert.False(t, p.Promotions)
}

func TestCategoryEnabled_ToggleDesactivaSuGrupo(t *testing.T) {
	p := DefaultPreferences("user-1")
	p.OrderUpdates = false

	assert.False(t, p.CategoryEnabled(CategoryOrderPlaced))
	assert.False(t, p.CategoryEnabled(CategoryOrderConfirmed))
	assert.False(t, p.CategoryEnabled(CategoryOrderCancelled))
	assert.True(t, p.CategoryEnabled(CategoryPaymentReceived), "los demás grupos no se ven afectados")
}

func TestCategoryEnabled_CategoriaDesconocida_FailOpen(t *testing.T) {
	p := &NotificationPreferences{} // todo en false
	assert.True(t, p.CategoryEnabled("categoria_nueva"),
		"una categoría sin mapeo nunca debe perder notificaciones")
	assert.True(t, p.CategoryEnabled(CategorySystem))
}

// ──────────────────────────────────────────────────────────────────────────────
// Quiet hours
// ──────────────────────────────────────────────────────────────────────────────

func TestInQuietHours_VentanaSimple(t *testing.T) {
	p := &NotificationPreferences{QuietHoursStart: "09:00", QuietHoursEnd: "17:00"}

	assert.True(t, p.InQuietHours(time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)))
	assert.True(t, p.InQuietHours(time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)), "el inicio es inclusivo")
	assert.False(t, p.InQuietHours(time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC)), "el fin es exclusivo")
	assert.False(t, p.InQuietHours(time.Date(2026, 8, 28, 8, 59, 0, 0, time.UTC)))
}

func TestInQuietHours_VentanaQueCruzaMedianoche(t *testing.T) {
	p := &NotificationPreferences{QuietHoursStart: "22:00", QuietHoursEnd: "06:00"}

	assert.True(t, p.InQuietHours(time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)))
	assert.True(t, p.InQuietHours(time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)))
	assert.False(t, p.InQuietHours(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)))
	assert.False(t, p.InQuietHours(time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)))
}

func TestInQuietHours_SinVentanaConfigurada(t *testing.T) {
	p := &NotificationPreferences{}
	assert.False(t, p.InQuietHours(time.Now()))
}

func TestInQuietHours_FormatoInvalido_SeIgnora(t *testing.T) {
	p := &NotificationPreferences{QuietHoursStart: "25:99", QuietHoursEnd: "06:00"}
	assert.False(t, p.InQuietHours(time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)),
		"una ventana mal formada no debe silenciar nada")
}

func TestQuietHoursEndsAt_MismoDia(t *testing.T) {
	p := &NotificationPreferences{QuietHoursStart: "09:00", QuietHoursEnd: "17:00"}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	end := p.QuietHoursEndsAt(now)
	assert.Equal(t, time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC), end)
}

func TestQuietHoursEndsAt_VentanaNocturna_TerminaAlDiaSiguiente(t *testing.T) {
	p := &NotificationPreferences{QuietHoursStart: "22:00", QuietHoursEnd: "06:00"}
	now := time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)

	end := p.QuietHoursEndsAt(now)
	assert.Equal(t, time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC), end)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversaciones — identidad canónica del par
// ──────────────────────────────────────────────────────────────────────────────

func TestCanonicalPair_OrdenEstable(t *testing.T) {
	a1, b1 := CanonicalPair("zoe", "ana")
	a2, b2 := CanonicalPair("ana", "zoe")
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "ana", a1)
	assert.Equal(t, "zoe", b1)
}

func TestConversationPairKey_NoImportaQuienInicia(t *testing.T) {
	k1 := ConversationPairKey("buyer-1", "seller-9", "order-5", "", false)
	k2 := ConversationPairKey("seller-9", "buyer-1", "order-5", "", false)
	assert.Equal(t, k1, k2, "mismo par y misma orden deben dar la misma clave")
}

func TestConversationPairKey_OrdenesDistintas_HilosDistintos(t *testing.T) {
	k1 := ConversationPairKey("buyer-1", "seller-9", "order-5", "", false)
	k2 := ConversationPairKey("buyer-1", "seller-9", "order-6", "", false)
	general := ConversationPairKey("buyer-1", "seller-9", "", "", false)

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, general, "la conversación general es distinta a la de una orden")
}

func TestConversationPairKey_ForkPorProducto(t *testing.T) {
	sinFork1 := ConversationPairKey("a", "b", "", "prod-1", false)
	sinFork2 := ConversationPairKey("a", "b", "", "prod-2", false)
	assert.Equal(t, sinFork1, sinFork2, "sin fork, el producto es solo contexto informativo")

	conFork1 := ConversationPairKey("a", "b", "", "prod-1", true)
	conFork2 := ConversationPairKey("a", "b", "", "prod-2", true)
	assert.NotEqual(t, conFork1, conFork2, "con fork, el producto participa en la identidad")
}

func TestConversation_OtherParticipant(t *testing.T) {
	c := &Conversation{ParticipantA: "ana", ParticipantB: "zoe"}
	assert.Equal(t, "zoe", c.OtherParticipant("ana"))
	assert.Equal(t, "ana", c.OtherParticipant("zoe"))
	assert.Equal(t, "", c.OtherParticipant("otro"))
	require.True(t, c.HasParticipant("ana"))
	assert.False(t, c.HasParticipant("otro"))
}
