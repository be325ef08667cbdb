package redis

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// TokenDenylist отозванные токены хранятся до истечения их срока.
type TokenDenylist struct {
	client *clients.RedisClient
}

func NewTokenDenylist(client *clients.RedisClient) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (t *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	if err := t.client.Client.Set(ctx, t.client.Key("revoked", tokenID), 1, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (t *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := t.client.Client.Exists(ctx, t.client.Key("revoked", tokenID)).Result()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return n > 0, nil
}
