package entity

import "time"

// Tipos de mensaje.
const (
	MessageText   = "text"
	MessageMedia  = "media"
	MessageSystem = "system"
)

// Message es inmutable una vez creado salvo por su estado de lectura.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Type           string
	Content        string
	Read           bool
	CreatedAt      time.Time
}
