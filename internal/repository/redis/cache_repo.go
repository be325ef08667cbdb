package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// CacheRepo кэш карточек товаров и всего каталога витрины.
// Ошибки Redis на запись только логируются: источник правды всегда PostgreSQL.
type CacheRepo struct {
	client      *clients.RedisClient
	infoConv    converter.ProductInfoConverter
	catalogConv converter.ProductConverter
	cfg         *cfg.RedisCfg
	logger      logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client:      client,
		infoConv:    conv,
		catalogConv: converter.ProductConverter{},
		cfg:         cfg,
		logger:      logger,
	}
}

// GetProducts возвращает найденные в кэше карточки; промахи просто отсутствуют в map.
func (r *CacheRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]usecase.ProductInfo, error) {
	if len(ids) == 0 {
		return map[int64]usecase.ProductInfo{}, nil
	}

	keys := r.productKeys(ids)
	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var stale []string
	result := make(map[int64]usecase.ProductInfo, len(values))
	for i, val := range values {
		model, err := decodeCached[converter.ProductInfoRedisModel](val)
		switch {
		case err != nil:
			r.logger.Warnf("product cache %s unreadable: %v", keys[i], err)
			stale = append(stale, keys[i])
		case model == nil:
			// промах
		case model.ID != ids[i]:
			r.logger.Warnf("product cache %s holds id %d", keys[i], model.ID)
			stale = append(stale, keys[i])
		default:
			result[ids[i]] = *r.infoConv.ToUseCase(model)
		}
	}

	if len(stale) > 0 {
		r.del(ctx, stale...)
	}

	return result, nil
}

// SetProducts кэширует карточки одним pipeline.
func (r *CacheRepo) SetProducts(ctx context.Context, products []usecase.ProductInfo) error {
	if len(products) == 0 {
		return nil
	}

	pipe := r.client.Client.Pipeline()
	for _, model := range r.infoConv.ToArrRedisModel(products) {
		data, err := json.Marshal(model)
		if err != nil {
			r.logger.Warnf("product %d not cached: %v", model.ID, err)
			continue
		}
		pipe.Set(ctx, r.productKey(model.ID), data, r.cfg.ProductTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warnf("product cache pipeline: %v", e.Wrap(whereami.WhereAmI(), err))
	}
	return nil
}

func (r *CacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	if len(ids) > 0 {
		r.del(ctx, r.productKeys(ids)...)
	}
	return nil
}

// GetCatalog возвращает каталог целиком; ok=false при промахе или битом значении.
func (r *CacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, bool, error) {
	data, err := r.client.Client.Get(ctx, r.catalogKey()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		r.logger.Warnf("catalog cache corrupted, dropping: %v", err)
		r.del(ctx, r.catalogKey())
		return nil, false, nil
	}

	products := make([]domain.Product, len(models))
	for i := range models {
		products[i] = r.catalogConv.ToEntity(&models[i])
	}
	return products, true, nil
}

func (r *CacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error {
	models := make([]converter.ProductRedisModel, len(products))
	for i := range products {
		models[i] = r.catalogConv.ToRedisModel(&products[i])
	}

	data, err := json.Marshal(models)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, r.catalogKey(), data, r.cfg.CatalogTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (r *CacheRepo) DeleteCatalog(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, r.catalogKey()).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (r *CacheRepo) del(ctx context.Context, keys ...string) {
	if err := r.client.Client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warnf("redis DEL %v: %v", keys, err)
	}
}

func (r *CacheRepo) catalogKey() string {
	return r.client.Key("catalog", "all")
}

func (r *CacheRepo) productKey(id int64) string {
	return r.client.Key("product", strconv.FormatInt(id, 10))
}

func (r *CacheRepo) productKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}
	return keys
}

// decodeCached разбирает элемент ответа MGET. nil, nil означает промах.
func decodeCached[T any](val any) (*T, error) {
	var data []byte
	switch v := val.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("unexpected redis value type %T", val)
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
