// Package session persists the per-chat settings blob. It mirrors the single
// local-storage key of the browser original: read once when a chat first
// shows up, written only on explicit "save settings".
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error not found")

type RedisSettings struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSettings(redisClient *redis.Client, cfg *config.Config) *RedisSettings {
	return &RedisSettings{redis: redisClient, cfg: cfg}
}

func settingsKey(chatID int64) string {
	return fmt.Sprintf("settings:%d", chatID)
}

func (r *RedisSettings) GetSettings(ctx context.Context, chatID int64) (model.Settings, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, settingsKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Settings{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("chatID", chatID))
		return model.Settings{}, err
	}

	settings := model.Settings{}
	if err := json.Unmarshal([]byte(res), &settings); err != nil {
		slog.Error(
			"can't unmarshall settings",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.Settings{}, errors.New("can't unmarshall settings")
	}

	return settings, nil
}

func (r *RedisSettings) SetSettings(ctx context.Context, chatID int64, settings model.Settings) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	settingsJson, err := json.Marshal(settings)
	if err != nil {
		slog.Error("can't marshall settings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall settings")
	}

	_, err = r.redis.Set(ctx, settingsKey(chatID), settingsJson, 0).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("chatID", chatID))
		return err
	}

	return nil
}
