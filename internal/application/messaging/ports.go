package messaging

import (
	"context"

	"github.com/linka-market/stock-core/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios de
// mensajería atados a ella. Error de fn = rollback; nil = commit.
type TxRunner interface {
	RunMessaging(ctx context.Context, fn func(convs repository.ConversationRepository, msgs repository.MessageRepository) error) error
}
