package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyRepo быстрый путь повторов подтверждения; источник истины уникальный столбец в БД.
type IdempotencyRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewIdempotencyRepo(client *clients.RedisClient, cfg *cfg.RedisCfg) *IdempotencyRepo {
	return &IdempotencyRepo{client: client, cfg: cfg}
}

func (r *IdempotencyRepo) GetReference(ctx context.Context, customerID int64, key string) (string, bool, error) {
	ref, err := r.client.Client.Get(ctx, r.idempotencyKey(customerID, key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ref, true, nil
}

func (r *IdempotencyRepo) SaveReference(ctx context.Context, customerID int64, key string, reference string) error {
	if err := r.client.Client.Set(ctx, r.idempotencyKey(customerID, key), reference, r.cfg.IdempotencyTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *IdempotencyRepo) idempotencyKey(customerID int64, key string) string {
	return r.client.Key("idempotency", strconv.FormatInt(customerID, 10), key)
}
