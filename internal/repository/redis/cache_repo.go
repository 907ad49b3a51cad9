package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/internal/repository/redis/converter"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/clients"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// setIfNewer записывает цену, только если в ключе нет цены с той же или большей версией.
// KEYS[1] — ключ, ARGV[1] — JSON цены, ARGV[2] — версия, ARGV[3] — TTL в миллисекундах.
// Нечитаемое значение перезаписывается.
var setIfNewer = r.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local ok, entry = pcall(cjson.decode, cur)
	if ok and type(entry) == 'table' then
		local version = tonumber(entry['version'])
		if version and version >= tonumber(ARGV[2]) then
			return 0
		end
	end
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// CacheRepo кэширует последнюю цену продукта в Redis.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.LatestPriceConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.LatestPriceConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetLatestPrice возвращает закэшированную цену или nil при промахе.
// Повреждённая или чужая запись удаляется и считается промахом.
func (c *CacheRepo) GetLatestPrice(ctx context.Context, productID string) (*usecase.LatestPrice, error) {
	key := priceKey(productID)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := unmarshalPrice(data)
	if err != nil || model.ProductID != productID {
		c.logger.Warnf("Dropping bad cache entry: key=%s, err=%v", key, err)
		if err := c.client.Client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return c.conv.ToUseCase(model), nil
}

// SetLatestPrice кэширует цену с TTL из конфигурации. Цена с версией не новее
// уже закэшированной отбрасывается.
func (c *CacheRepo) SetLatestPrice(ctx context.Context, price *usecase.LatestPrice) error {
	data, err := json.Marshal(c.conv.ToRedisModel(price))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	key := priceKey(price.ProductID)
	stored, err := setIfNewer.Run(ctx, c.client.Client, []string{key},
		string(data), price.Version, c.cfg.PriceTTL.Milliseconds()).Int64()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if stored == 0 {
		c.logger.Debugf("Cached price is newer, skip: key=%s, version=%d", key, price.Version)
	}

	return nil
}

// DeleteLatestPrices удаляет цены продуктов из кэша.
func (c *CacheRepo) DeleteLatestPrices(ctx context.Context, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}

	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = priceKey(id)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func unmarshalPrice(data []byte) (*converter.LatestPriceRedisModel, error) {
	var model converter.LatestPriceRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

// priceKey возвращает Redis-ключ последней цены продукта
func priceKey(productID string) string {
	return fmt.Sprintf("price:%s", productID)
}
