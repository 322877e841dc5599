package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/vending-machine/internal/cfg"
	"github.com/DRSN-tech/vending-machine/internal/repository/redis/converter"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/pkg/clients"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// pendingMarker занимает ключ, пока подтверждение покупки выполняется.
const pendingMarker = "pending"

type IdempotencyRepo struct {
	client *clients.RedisClient
	conv   converter.CheckoutConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewIdempotencyRepo(client *clients.RedisClient, conv converter.CheckoutConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *IdempotencyRepo {
	return &IdempotencyRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// Get возвращает сохранённый результат. Для занятого, но ещё не заполненного ключа — (nil, true, nil).
func (i *IdempotencyRepo) Get(ctx context.Context, key string) (*usecase.CheckoutRes, bool, error) {
	data, err := i.client.Client.Get(ctx, i.checkoutKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, false, nil
		}
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	if string(data) == pendingMarker {
		return nil, true, nil
	}

	var model converter.CheckoutRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	res, err := i.conv.ToUseCase(&model)
	if err != nil {
		// Битую запись удаляем, чтобы она не блокировала ключ до истечения TTL
		i.logger.Warnf("corrupted checkout result, key: %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		if delErr := i.client.Client.Del(ctx, i.checkoutKey(key)).Err(); delErr != nil {
			i.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), delErr))
		}
		return nil, false, nil
	}

	return res, true, nil
}

// Reserve атомарно занимает ключ. false означает, что ключ уже занят.
func (i *IdempotencyRepo) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := i.client.Client.SetNX(ctx, i.checkoutKey(key), pendingMarker, i.cfg.IdempotencyTTL).Result()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ok, nil
}

// Save сохраняет результат с TTL из конфигурации.
func (i *IdempotencyRepo) Save(ctx context.Context, key string, res *usecase.CheckoutRes) error {
	data, err := json.Marshal(i.conv.ToRedisModel(res))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := i.client.Client.Set(ctx, i.checkoutKey(key), data, i.cfg.IdempotencyTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Release освобождает ключ после неуспешной попытки.
func (i *IdempotencyRepo) Release(ctx context.Context, key string) error {
	if err := i.client.Client.Del(ctx, i.checkoutKey(key)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// checkoutKey возвращает Redis-ключ для ключа идемпотентности клиента
func (i *IdempotencyRepo) checkoutKey(key string) string {
	return fmt.Sprintf("checkout:idempotency:%s", key)
}
