package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// WizardRepo хранит черновики записи с TTL; каждое сохранение продлевает срок жизни.
type WizardRepo struct {
	client *clients.RedisClient
	conv   converter.WizardConverter
	cfg    *cfg.RedisCfg
}

func NewWizardRepo(client *clients.RedisClient, conv converter.WizardConverter, cfg *cfg.RedisCfg) *WizardRepo {
	return &WizardRepo{client: client, conv: conv, cfg: cfg}
}

func (r *WizardRepo) Save(ctx context.Context, wizard *domain.Wizard) error {
	data, err := json.Marshal(r.conv.ToRedisModel(wizard))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, r.client.Key("wizard", wizard.ID), data, r.cfg.WizardTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *WizardRepo) Get(ctx context.Context, id string) (*domain.Wizard, error) {
	data, err := r.client.Client.Get(ctx, r.client.Key("wizard", id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, e.ErrWizardNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.WizardRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	wizard, err := r.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return wizard, nil
}

func (r *WizardRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Client.Del(ctx, r.client.Key("wizard", id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
