package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/jitter"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const pingAttempts = 3

var pingBackoff = jitter.Backoff{Base: 100 * time.Millisecond, Max: time.Second, Factor: jitter.DefaultJitter}

// RedisClient — клиент кэша последних цен.
type RedisClient struct {
	Client *r.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	client := r.NewClient(&r.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	return &RedisClient{
		Client: client,
	}
}

// Ping проверяет соединение. Redis может подняться позже сервиса, поэтому
// делается до pingAttempts попыток.
func (r *RedisClient) Ping(ctx context.Context) error {
	var err error
	for attempt := 0; attempt < pingAttempts; attempt++ {
		if err = r.Client.Ping(ctx).Err(); err == nil {
			return nil
		}
		if attempt < pingAttempts-1 && !pingBackoff.Wait(ctx.Done(), attempt) {
			break
		}
	}

	return e.Wrap(whereami.WhereAmI(), err)
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}
