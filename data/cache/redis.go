// Package cache holds the shared price cache. Writers (the polling refresh
// job and manual refreshes) coordinate by last-write-wins only; readers take
// whatever is there.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("error not found")

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func priceKey(ticker string) string {
	return fmt.Sprintf("price:%s", ticker)
}

func (r *RedisCache) SetPrices(ctx context.Context, prices map[string]decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start SetPrices", slog.String("rqID", rqID))

	pipe := r.redis.Pipeline()
	for ticker, price := range prices {
		pipe.Set(ctx, priceKey(ticker), price.String(), r.cfg.Cache.PricesExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetPrices completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, priceKey(ticker)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Decimal{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("ticker", ticker))
		return decimal.Decimal{}, err
	}

	price, err := decimal.NewFromString(res)
	if err != nil {
		slog.Error("can't parse cached price", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("resultFromRedis", res))
		return decimal.Decimal{}, err
	}

	return price, nil
}

func (r *RedisCache) GetPrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	if len(tickers) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	keys := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		keys = append(keys, priceKey(ticker))
	}

	res, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("failed on redis.MGet", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(tickers))
	for i, raw := range res {
		str, ok := raw.(string)
		if !ok {
			continue // missing key
		}
		price, err := decimal.NewFromString(str)
		if err != nil {
			slog.Error("can't parse cached price", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("ticker", tickers[i]))
			continue
		}
		prices[tickers[i]] = price
	}

	return prices, nil
}
