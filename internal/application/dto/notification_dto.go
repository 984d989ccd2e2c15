package dto

import (
	"time"

	"github.com/linka-market/stock-core/internal/domain/entity"
)

// NotificationResponse proyección de una notificación.
type NotificationResponse struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   string     `json:"reference_id,omitempty"`
	Priority      string     `json:"priority"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewNotificationResponse mapea la entidad a su proyección HTTP.
func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Category:      n.Category,
		Title:         n.Title,
		Body:          n.Body,
		ReferenceType: n.ReferenceType,
		ReferenceID:   n.ReferenceID,
		Priority:      n.Priority,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

// NotificationListResponse listado con conteo de no leídas.
type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int64                  `json:"unread_count"`
}

// PreferencesRequest body para PUT /api/notifications/preferences.
type PreferencesRequest struct {
	StockAlerts     bool   `json:"stock_alerts"`
	OrderUpdates    bool   `json:"order_updates"`
	PaymentUpdates  bool   `json:"payment_updates"`
	DeliveryUpdates bool   `json:"delivery_updates"`
	Messages        bool   `json:"messages"`
	Promotions      bool   `json:"promotions"`
	QuietHoursStart string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string `json:"quiet_hours_end,omitempty"`
}

// PreferencesResponse proyección de las preferencias del usuario.
type PreferencesResponse struct {
	StockAlerts     bool   `json:"stock_alerts"`
	OrderUpdates    bool   `json:"order_updates"`
	PaymentUpdates  bool   `json:"payment_updates"`
	DeliveryUpdates bool   `json:"delivery_updates"`
	Messages        bool   `json:"messages"`
	Promotions      bool   `json:"promotions"`
	QuietHoursStart string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string `json:"quiet_hours_end,omitempty"`
}

// NewPreferencesResponse mapea la entidad a su proyección HTTP.
func NewPreferencesResponse(p *entity.NotificationPreferences) PreferencesResponse {
	return PreferencesResponse{
		StockAlerts:     p.StockAlerts,
		OrderUpdates:    p.OrderUpdates,
		PaymentUpdates:  p.PaymentUpdates,
		DeliveryUpdates: p.DeliveryUpdates,
		Messages:        p.Messages,
		Promotions:      p.Promotions,
		QuietHoursStart: p.QuietHoursStart,
		QuietHoursEnd:   p.QuietHoursEnd,
	}
}

// IngestEventRequest body para POST /api/events: la forma uniforme con la que
// los servicios de la plataforma (órdenes, pagos, entregas) empujan eventos.
type IngestEventRequest struct {
	RecipientID   string `json:"recipient_id"`
	Category      string `json:"category"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Priority      string `json:"priority,omitempty"`
}
