package entity

import (
	"time"
)

// NotificationPreferences controla, por usuario, qué categorías generan
// notificaciones y la ventana opcional de quiet hours (UTC, formato "HH:MM",
// puede cruzar medianoche). Dentro de quiet hours la fila se persiste igual;
// solo se difiere el push en tiempo real.
type NotificationPreferences struct {
	UserID string

	StockAlerts     bool
	OrderUpdates    bool
	PaymentUpdates  bool
	DeliveryUpdates bool
	Messages        bool
	Promotions      bool

	QuietHoursStart string // "" = sin quiet hours
	QuietHoursEnd   string

	UpdatedAt time.Time
}

// DefaultPreferences devuelve las preferencias por defecto: todo activo salvo
// promociones, sin quiet hours.
func DefaultPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:          userID,
		StockAlerts:     true,
		OrderUpdates:    true,
		PaymentUpdates:  true,
		DeliveryUpdates: true,
		Messages:        true,
		Promotions:      false,
	}
}

// CategoryEnabled indica si la categoría está habilitada para este usuario.
// Categorías desconocidas se consideran habilitadas (fail-open: nunca perder
// una notificación por un mapeo faltante).
func (p *NotificationPreferences) CategoryEnabled(category string) bool {
	switch category {
	case CategoryLowStockAlert:
		return p.StockAlerts
	case CategoryOrderPlaced, CategoryOrderConfirmed, CategoryOrderCancelled:
		return p.OrderUpdates
	case CategoryPaymentReceived, CategoryPaymentFailed:
		return p.PaymentUpdates
	case CategoryDeliveryUpdate:
		return p.DeliveryUpdates
	case CategoryMessageReceived:
		return p.Messages
	}
	return true
}

// InQuietHours indica si now (UTC) cae dentro de la ventana de quiet hours.
// Una ventana "22:00"–"06:00" cruza medianoche y se interpreta como tal.
func (p *NotificationPreferences) InQuietHours(now time.Time) bool {
	if p.QuietHoursStart == "" || p.QuietHoursEnd == "" {
		return false
	}
	start, okS := parseClock(p.QuietHoursStart)
	end, okE := parseClock(p.QuietHoursEnd)
	if !okS || !okE || start == end {
		return false
	}
	cur := now.UTC().Hour()*60 + now.UTC().Minute()
	if start < end {
		return cur >= start && cur < end
	}
	// Ventana que cruza medianoche
	return cur >= start || cur < end
}

// QuietHoursEndsAt devuelve el próximo instante (>= now) en que termina la
// ventana de quiet hours. Solo tiene sentido si InQuietHours(now) es true.
func (p *NotificationPreferences) QuietHoursEndsAt(now time.Time) time.Time {
	end, ok := parseClock(p.QuietHoursEnd)
	if !ok {
		return now
	}
	now = now.UTC()
	candidate := time.Date(now.Year(), now.Month(), now.Day(), end/60, end%60, 0, 0, time.UTC)
	if !candidate.After(now) {
		candidate = candidate.Add(24 * time.Hour)
	}
	return candidate
}

// parseClock convierte "HH:MM" a minutos desde medianoche.
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' ||
		h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
