package entity

import "time"

// Categorías de notificación ingeridas desde los colaboradores de la plataforma.
const (
	CategoryOrderPlaced     = "order_placed"
	CategoryOrderConfirmed  = "order_confirmed"
	CategoryOrderCancelled  = "order_cancelled"
	CategoryPaymentReceived = "payment_received"
	CategoryPaymentFailed   = "payment_failed"
	CategoryDeliveryUpdate  = "delivery_update"
	CategoryLowStockAlert   = "low_stock_alert"
	CategoryMessageReceived = "message_received"
	CategorySystem          = "system"
)

// Prioridades de notificación. Urgent ignora quiet hours.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification es una fila por destinatario y evento, creada por el router.
// Solo muta su estado de lectura. La fila persistida es el contrato de
// durabilidad: el push en tiempo real es best-effort.
type Notification struct {
	ID          string
	RecipientID string
	Category    string
	Title       string
	Body        string

	ReferenceType string // "stock_alert", "order", "message", ...
	ReferenceID   string
	Priority      string

	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
