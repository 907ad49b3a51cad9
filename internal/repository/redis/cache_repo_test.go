package redis

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/internal/repository/redis/converter"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/clients"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	r "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore отвечает на GET/SET/DEL и скрипт setIfNewer из памяти и не пускает команды в сеть.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func (m *memStore) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (m *memStore) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return next
}

func (m *memStore) ProcessHook(r.ProcessHook) r.ProcessHook {
	return func(_ context.Context, cmd r.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		args := cmd.Args()
		switch cmd.Name() {
		case "get":
			v, ok := m.data[args[1].(string)]
			if !ok {
				cmd.SetErr(r.Nil)
				return r.Nil
			}
			cmd.(*r.StringCmd).SetVal(v)
		case "set":
			key := args[1].(string)
			m.data[key] = string(args[2].([]byte))
			m.ttl[key] = 0
			if len(args) > 4 {
				switch unit := args[3].(string); unit {
				case "ex":
					m.ttl[key] = time.Duration(args[4].(int64)) * time.Second
				case "px":
					m.ttl[key] = time.Duration(args[4].(int64)) * time.Millisecond
				}
			}
			cmd.(*r.StatusCmd).SetVal("OK")
		case "eval", "evalsha":
			// KEYS[1], ARGV: JSON, версия, TTL в мс
			key := args[3].(string)
			version, ttl := args[5].(int64), args[6].(int64)
			if cur, ok := m.data[key]; ok {
				var stored struct {
					Version int64 `json:"version"`
				}
				if json.Unmarshal([]byte(cur), &stored) == nil && stored.Version >= version {
					cmd.(*r.Cmd).SetVal(int64(0))
					return nil
				}
			}
			m.data[key] = args[4].(string)
			m.ttl[key] = time.Duration(ttl) * time.Millisecond
			cmd.(*r.Cmd).SetVal(int64(1))
		case "del":
			var n int64
			for _, k := range args[1:] {
				if _, ok := m.data[k.(string)]; ok {
					delete(m.data, k.(string))
					n++
				}
			}
			cmd.(*r.IntCmd).SetVal(n)
		}
		return nil
	}
}

func newTestRepo(t *testing.T) (*CacheRepo, *memStore) {
	t.Helper()
	store := &memStore{data: make(map[string]string), ttl: make(map[string]time.Duration)}
	client := r.NewClient(&r.Options{Addr: "127.0.0.1:0"})
	client.AddHook(store)
	t.Cleanup(func() { _ = client.Close() })

	repo := NewCacheRepo(&clients.RedisClient{Client: client}, converter.NewLatestPriceConverterImpl(),
		&cfg.RedisCfg{PriceTTL: 3 * time.Minute}, logger.Nop{})
	return repo, store
}

func TestCacheRepo_SetGet(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	price := &usecase.LatestPrice{
		ProductID:          "milk-1",
		OriginalPrice:      decimal.RequireFromString("100"),
		DiscountedPrice:    decimal.RequireFromString("85.00"),
		DiscountPercentage: decimal.RequireFromString("15"),
		AppliedAt:          &at,
		AppliedBy:          "System",
		FromHistory:        true,
		Version:            7,
	}
	require.NoError(t, repo.SetLatestPrice(ctx, price))
	assert.Equal(t, 3*time.Minute, store.ttl["price:milk-1"])

	got, err := repo.GetLatestPrice(ctx, "milk-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.DiscountedPrice.Equal(decimal.RequireFromString("85")))
	assert.True(t, got.AppliedAt.Equal(at))
	assert.Equal(t, "System", got.AppliedBy)
	assert.True(t, got.FromHistory)
	assert.Equal(t, int64(7), got.Version)
}

func TestCacheRepo_SetKeepsNewerVersion(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()
	price := func(version int64, amount string) *usecase.LatestPrice {
		return &usecase.LatestPrice{
			ProductID:       "milk-1",
			DiscountedPrice: decimal.RequireFromString(amount),
			FromHistory:     true,
			Version:         version,
		}
	}
	cachedAmount := func() string {
		got, err := repo.GetLatestPrice(ctx, "milk-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		return got.DiscountedPrice.StringFixed(2)
	}

	require.NoError(t, repo.SetLatestPrice(ctx, price(2, "170.00")))

	t.Run("older version is ignored", func(t *testing.T) {
		require.NoError(t, repo.SetLatestPrice(ctx, price(1, "85.00")))
		assert.Equal(t, "170.00", cachedAmount())
	})

	t.Run("same version is ignored", func(t *testing.T) {
		require.NoError(t, repo.SetLatestPrice(ctx, price(2, "1.00")))
		assert.Equal(t, "170.00", cachedAmount())
	})

	t.Run("newer version replaces", func(t *testing.T) {
		require.NoError(t, repo.SetLatestPrice(ctx, price(3, "90.00")))
		assert.Equal(t, "90.00", cachedAmount())
	})

	t.Run("unreadable value is replaced", func(t *testing.T) {
		store.data["price:milk-1"] = "{not json"
		require.NoError(t, repo.SetLatestPrice(ctx, price(1, "85.00")))
		assert.Equal(t, "85.00", cachedAmount())
	})
}

func TestCacheRepo_Miss(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.GetLatestPrice(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheRepo_BadEntryDropped(t *testing.T) {
	repo, store := newTestRepo(t)
	store.data["price:p1"] = "{not json"
	store.data["price:p2"] = `{"product_id":"someone-else"}`

	for _, id := range []string{"p1", "p2"} {
		got, err := repo.GetLatestPrice(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NotContains(t, store.data, "price:"+id)
	}
}

func TestCacheRepo_DeleteLatestPrices(t *testing.T) {
	repo, store := newTestRepo(t)
	store.data["price:a"] = "{}"
	store.data["price:b"] = "{}"
	store.data["price:c"] = "{}"

	require.NoError(t, repo.DeleteLatestPrices(context.Background(), []string{"a", "b"}))
	require.NoError(t, repo.DeleteLatestPrices(context.Background(), nil))

	assert.NotContains(t, store.data, "price:a")
	assert.NotContains(t, store.data, "price:b")
	assert.Contains(t, store.data, "price:c")
}
