// Package push implementa el canal en vivo hacia clientes conectados.
//
// El hub es best-effort por contrato: la fila de notificación ya está
// persistida cuando el push llega aquí, así que un subscriber lento o ausente
// solo pierde la entrega en tiempo real, nunca la notificación.
package push

import (
	"sync"

	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/pkg/logger"
)

var _ notification.Pusher = (*Hub)(nil)

// subscriberBuffer mensajes en vuelo por suscripción antes de descartar.
const subscriberBuffer = 16

// Hub mantiene las suscripciones en vivo por destinatario.
type Hub struct {
	mu   sync.RWMutex
	subs map[string][]chan entity.Notification
	log  *logger.Logger
}

// NewHub construye el hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{subs: make(map[string][]chan entity.Notification), log: log}
}

// Subscribe registra un canal en vivo para recipientID. Devuelve el canal de
// lectura y la función para darse de baja (cierra el canal).
func (h *Hub) Subscribe(recipientID string) (<-chan entity.Notification, func()) {
	ch := make(chan entity.Notification, subscriberBuffer)

	h.mu.Lock()
	h.subs[recipientID] = append(h.subs[recipientID], ch)
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subs[recipientID]
		for i, c := range subs {
			if c == ch {
				h.subs[recipientID] = append(subs[:i], subs[i+1:]...)
				close(c)
				break
			}
		}
		if len(h.subs[recipientID]) == 0 {
			delete(h.subs, recipientID)
		}
	}
	return ch, unsubscribe
}

// Push entrega la notificación a todas las suscripciones del destinatario.
// Envío no bloqueante: un buffer lleno descarta el push (el cliente recupera
// consultando no leídas).
func (h *Hub) Push(recipientID string, n entity.Notification) {
	h.mu.RLock()
	subs := h.subs[recipientID]
	h.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
			h.log.Warn().
				Str("recipient_id", recipientID).
				Str("notification_id", n.ID).
				Msg("push descartado: suscriptor saturado")
		}
	}
}
