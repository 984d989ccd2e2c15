// Package bus implementa el fan-out in-process de eventos del ledger.
//
// Los eventos se reparten en particiones por hash de la clave de línea: los
// eventos de una misma línea salen en orden de commit, los de líneas distintas
// avanzan en paralelo. Los handlers corren fuera de la sección crítica del
// productor.
package bus

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/pkg/logger"
)

var _ ledger.Publisher = (*Bus)(nil)

// Handler procesa un evento de cambio del ledger.
type Handler func(ctx context.Context, ev ledger.ChangeEvent)

// Bus es el publicador in-process con particionado por clave.
type Bus struct {
	partitions []chan ledger.ChangeEvent
	handlers   []Handler
	log        *logger.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// New construye el bus con la cantidad de particiones dada (cada una es un
// worker con su cola propia).
func New(partitions, buffer int, log *logger.Logger) *Bus {
	if partitions < 1 {
		partitions = 1
	}
	chans := make([]chan ledger.ChangeEvent, partitions)
	for i := range chans {
		chans[i] = make(chan ledger.ChangeEvent, buffer)
	}
	return &Bus{partitions: chans, log: log}
}

// Subscribe registra un handler. Debe llamarse antes de Start.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Start lanza un worker por partición. Los workers viven hasta que ctx se
// cancele o se llame Stop.
func (b *Bus) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	handlers := b.handlers
	b.mu.Unlock()

	for _, ch := range b.partitions {
		b.wg.Add(1)
		go func(ch chan ledger.ChangeEvent) {
			defer b.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-ch:
					if !ok {
						return
					}
					b.deliver(ctx, handlers, ev)
				}
			}
		}(ch)
	}
}

// PublishLineChanged encola el evento en la partición de su clave. El envío es
// bloqueante: el backpressure frena al productor antes que perder eventos.
func (b *Bus) PublishLineChanged(ev ledger.ChangeEvent) {
	idx := partitionOf(ev.Key(), len(b.partitions))
	b.partitions[idx] <- ev
}

// Stop cierra las colas y espera a que los workers drenen lo pendiente.
func (b *Bus) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return
	}
	for _, ch := range b.partitions {
		close(ch)
	}
	b.wg.Wait()
	b.started = false
}

// deliver invoca cada handler conteniendo pánicos: un handler roto no puede
// tumbar la partición.
func (b *Bus) deliver(ctx context.Context, handlers []Handler, ev ledger.ChangeEvent) {
	for _, h := range handlers {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					b.log.Error().Interface("panic", rec).Str("key", ev.Key()).Msg("handler de evento falló")
				}
			}()
			h(ctx, ev)
		}()
	}
}

func partitionOf(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
