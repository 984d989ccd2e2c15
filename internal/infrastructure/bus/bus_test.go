package bus_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/domain/entity"
	"github.com/linka-market/stock-core/internal/infrastructure/bus"
	"github.com/linka-market/stock-core/pkg/logger"
)

func event(productID string, seq int64) ledger.ChangeEvent {
	return ledger.ChangeEvent{
		Line:           entity.StockLine{ProductID: productID},
		AvailableAfter: seq, // se usa como número de secuencia para verificar orden
	}
}

func TestBus_OrdenFIFOPorClave(t *testing.T) {
	b := bus.New(4, 16, logger.Nop())

	var mu sync.Mutex
	seen := map[string][]int64{}
	b.Subscribe(func(_ context.Context, ev ledger.ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		seen[ev.Key()] = append(seen[ev.Key()], ev.AvailableAfter)
	})
	b.Start(context.Background())

	keys := []string{"prod-a", "prod-b", "prod-c", "prod-d", "prod-e"}
	const perKey = 50
	for seq := int64(0); seq < perKey; seq++ {
		for _, k := range keys {
			b.PublishLineChanged(event(k, seq))
		}
	}
	b.Stop() // cierra y drena

	mu.Lock()
	defer mu.Unlock()
	for _, k := range keys {
		got := seen[entity.StockKey{ProductID: k}.String()]
		require.Len(t, got, perKey, "ningún evento de %s se pierde", k)
		for i, seq := range got {
			require.Equal(t, int64(i), seq,
				"los eventos de %s deben llegar en orden de publicación", k)
		}
	}
}

func TestBus_FanOutATodosLosHandlers(t *testing.T) {
	b := bus.New(2, 4, logger.Nop())

	var mu sync.Mutex
	counts := make([]int, 3)
	for i := 0; i < 3; i++ {
		i := i
		b.Subscribe(func(context.Context, ledger.ChangeEvent) {
			mu.Lock()
			counts[i]++
			mu.Unlock()
		})
	}
	b.Start(context.Background())

	for seq := int64(0); seq < 10; seq++ {
		b.PublishLineChanged(event("prod-a", seq))
	}
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	for i, c := range counts {
		assert.Equal(t, 10, c, "el handler %d debe ver todos los eventos", i)
	}
}

func TestBus_PanicDeUnHandler_NoTumbaLaParticion(t *testing.T) {
	b := bus.New(1, 4, logger.Nop())

	var mu sync.Mutex
	delivered := 0
	b.Subscribe(func(context.Context, ledger.ChangeEvent) {
		panic("handler roto")
	})
	b.Subscribe(func(context.Context, ledger.ChangeEvent) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})
	b.Start(context.Background())

	for seq := int64(0); seq < 5; seq++ {
		b.PublishLineChanged(event("prod-a", seq))
	}
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, delivered, "el segundo handler sigue recibiendo pese al pánico del primero")
}

func TestBus_StopEsperaElDrenaje(t *testing.T) {
	b := bus.New(1, 64, logger.Nop())

	var mu sync.Mutex
	delivered := 0
	b.Subscribe(func(context.Context, ledger.ChangeEvent) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})
	b.Start(context.Background())

	for seq := int64(0); seq < 40; seq++ {
		b.PublishLineChanged(event("prod-a", seq))
	}
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 40, delivered, "Stop no retorna hasta drenar lo encolado")
}
