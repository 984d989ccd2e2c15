package ledger

import "github.com/linka-market/stock-core/internal/domain/entity"

// ChangeEvent es la reacción post-commit de una mutación del ledger: el
// post-estado de la línea más el movimiento que lo causó. Un observador nunca
// ve uno sin el otro porque ambos se escriben en la misma transacción y el
// evento se emite solo tras el Commit.
type ChangeEvent struct {
	Line            entity.StockLine // post-estado
	AvailableBefore int64
	AvailableAfter  int64
	Movement        entity.StockMovement
}

// Key devuelve la clave de particionado: los eventos de una misma línea se
// procesan en el orden en que sus transacciones hicieron commit.
func (e ChangeEvent) Key() string {
	return e.Line.Key().String()
}
