package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects and pings. Both the settings blob and the price
// cache live in redis, so a failed ping aborts startup.
func NewRedisClient(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("redis ping failed", slog.String("err", err.Error()))
		panic(err)
	}
	slog.Info("redis connected", slog.String("addr", client.Options().Addr))

	return client
}
