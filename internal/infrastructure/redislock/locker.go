// Package redislock implementa el lock distribuido opcional del motor de stock
// sobre Redis (SET NX + verificación de dueño al liberar). Solo se activa
// cuando hay escritores del ledger fuera de esta instancia; el bloqueo de fila
// de PostgreSQL sigue siendo la garantía de corrección.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/domain"
	"github.com/linka-market/stock-core/pkg/config"
	"github.com/linka-market/stock-core/pkg/logger"
)

var _ ledger.Locker = (*Locker)(nil)

const (
	lockTTL       = 5 * time.Second
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

// releaseScript libera solo si el valor coincide (no soltar el lock de otro).
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Locker serializa mutaciones por clave de línea con SET NX.
type Locker struct {
	client *redis.Client
	log    *logger.Logger
}

// New construye el locker a partir de la configuración de Redis.
func New(cfg config.RedisConfig, log *logger.Logger) *Locker {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Locker{client: client, log: log}
}

// Lock intenta adquirir el lock con reintentos acotados. Devuelve la función
// de liberación; si los reintentos se agotan devuelve domain.ErrConflict.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:stock:" + key
	lockValue := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := l.client.SetNX(ctx, lockKey, lockValue, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("adquirir lock: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := releaseScript.Run(releaseCtx, l.client, []string{lockKey}, lockValue).Err(); err != nil {
					l.log.Warn().Err(err).Str("key", key).Msg("liberar lock falló; expira por TTL")
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
	return nil, domain.ErrConflict
}

// Close cierra la conexión a Redis.
func (l *Locker) Close() error {
	return l.client.Close()
}
