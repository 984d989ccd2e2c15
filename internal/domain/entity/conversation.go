package entity

import (
	"sort"
	"time"
)

// Conversation es un hilo 1:1 entre dos usuarios, opcionalmente atado a una
// orden (y, según configuración, a un producto). El par se canonicaliza para
// que la identidad sea estable sin importar quién inició.
type Conversation struct {
	ID string

	// ParticipantA < ParticipantB tras canonicalización.
	ParticipantA string
	ParticipantB string

	OrderID   string // "" = conversación general
	ProductID string // contexto informativo; forkea identidad solo si está configurado

	PairKey string // clave canónica única (participantes + contexto)

	LastMessageAt      *time.Time
	LastMessagePreview string
	CreatedAt          time.Time
}

// HasParticipant indica si userID es uno de los dos participantes.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant devuelve el participante distinto de userID ("" si userID no participa).
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return ""
}

// CanonicalPair ordena dos identidades de forma determinista.
func CanonicalPair(userA, userB string) (string, string) {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair[0], pair[1]
}

// ConversationPairKey construye la clave canónica de una conversación.
// forkByProduct controla si el producto participa en la identidad igual que
// el contexto de orden (pregunta abierta del esquema original, configurable).
func ConversationPairKey(userA, userB, orderID, productID string, forkByProduct bool) string {
	a, b := CanonicalPair(userA, userB)
	key := a + "|" + b + "|" + orderID
	if forkByProduct {
		key += "|" + productID
	}
	return key
}
