package appender

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/HorseArcher567/octolog/pkg/core"
)

// Redis 把格式化后的事件 RPUSH 到一个列表，失败时指数退避重试
type Redis struct {
	core.Base

	Addr       string
	Password   string
	DB         int
	Key        string
	MaxRetries uint
	Timeout    time.Duration

	client redis.UniversalClient
}

// NewRedis creates a Redis appender pushing to the "octolog" list.
func NewRedis() *Redis {
	return &Redis{
		Base:       core.NewBase(),
		Addr:       "localhost:6379",
		Key:        "octolog",
		MaxRetries: 3,
		Timeout:    time.Second,
	}
}

// Activate creates the client. Connectivity is not checked here; failures
// surface per event through the error handler.
func (a *Redis) Activate() error {
	if a.Key == "" {
		return fmt.Errorf("appender: Key option not set for appender %q", a.Name())
	}
	if a.Timeout <= 0 {
		a.Timeout = time.Second
	}
	a.client = redis.NewClient(&redis.Options{
		Addr:     a.Addr,
		Password: a.Password,
		DB:       a.DB,
		// 重试由 backoff 负责
		MaxRetries: -1,
	})
	return nil
}

func (a *Redis) Append(e *core.Event) {
	if !a.Accept(e) {
		return
	}
	if a.client == nil {
		a.Fail("no redis client for appender "+a.Name(), ErrNotActivated, e)
		return
	}

	payload := a.Render(e)
	ctx, cancel := context.WithTimeout(context.Background(), a.Timeout*time.Duration(a.MaxRetries+1))
	defer cancel()

	_, err := backoff.Retry(ctx, func() (int64, error) {
		opCtx, opCancel := context.WithTimeout(ctx, a.Timeout)
		defer opCancel()
		return a.client.RPush(opCtx, a.Key, payload).Result()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(a.MaxRetries+1),
	)
	if err != nil {
		a.Fail("failed to push event to redis", err, e)
	}
}

func (a *Redis) Close() error {
	if !a.MarkClosed() || a.client == nil {
		return nil
	}
	return a.client.Close()
}
