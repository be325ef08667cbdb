package redis

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/jitter"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

const lockRetryDelay = 50 * time.Millisecond

// снимает блокировку, только если она все еще наша
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockRepo блокировка SET NX с TTL. Ожидание ограничено TTL блокировки.
type LockRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewLockRepo(client *clients.RedisClient, cfg *cfg.RedisCfg) *LockRepo {
	return &LockRepo{client: client, cfg: cfg}
}

func (r *LockRepo) Acquire(ctx context.Context, key string) (func(ctx context.Context) error, error) {
	var (
		lockKey  = r.client.Key("lock", "booking", key)
		token    = uuid.NewString()
		deadline = time.Now().Add(r.cfg.BookingLockTTL)
	)

	for {
		ok, err := r.client.Client.SetNX(ctx, lockKey, token, r.cfg.BookingLockTTL).Result()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, e.ErrBookingInProgress
		}

		select {
		case <-ctx.Done():
			return nil, e.Wrap(whereami.WhereAmI(), ctx.Err())
		case <-time.After(jitter.Duration(lockRetryDelay, jitter.DefaultJitter)):
		}
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, r.client.Client, []string{lockKey}, token).Err(); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		return nil
	}

	return release, nil
}
