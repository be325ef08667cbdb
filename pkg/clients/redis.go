package clients

import (
	"context"
	"strings"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// RedisClient оборачивает go-redis и строит ключи с префиксом окружения.
type RedisClient struct {
	Client *r.Client
	prefix string
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	client := r.NewClient(&r.Options{
		Addr:            cfg.Addr,
		Username:        cfg.User,
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      cfg.MaxRetries,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.Timeout,
		WriteTimeout:    cfg.Timeout,
		ClientName:      cfg.KeyPrefix,
		DisableIdentity: true,
	})

	return &RedisClient{Client: client, prefix: cfg.KeyPrefix}
}

// Key склеивает части ключа через ":" и добавляет префикс, если он задан.
//
//	Key("wizard", "42") -> "aircon:wizard:42"
func (c *RedisClient) Key(parts ...string) string {
	if c.prefix != "" {
		parts = append([]string{c.prefix}, parts...)
	}
	return strings.Join(parts, ":")
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}
