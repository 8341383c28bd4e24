package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/config"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/data"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/data/cache"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/data/session"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/eventbus"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/externalApi/journalApi"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/reportGenerator/xlsxGenerator"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/router"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/scheduler"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/service/journalService"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/state"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/tgbot"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSettings := session.NewRedisSettings(redisClient, cfg)

	journalApiClient := journalApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	journalSrv := journalService.New(journalApiClient, redisCache, reportGenerator, googleCloudStorage)

	store := state.NewStore()
	bus := eventbus.New()
	rtr := router.New(store)

	tgController := telegram.NewController(cfg, journalSrv, redisSettings, store, bus, rtr)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh prices", func(jobCtx context.Context) error {
		if err := journalSrv.RefreshPrices(jobCtx); err != nil {
			return err
		}
		bus.Publish(eventbus.TopicPricesUpdated, eventbus.Event{})
		return nil
	}, cfg.Jobs.RefreshPricesInterval, true)
	sched.NewCrontabJob("drive cleanup", googleCloudStorage.DeleteOldFiles, cfg.Jobs.DriveCleanupCrontab, false)
	sched.Start()
	defer sched.Stop()

	tgBot := tgbot.New(cfg, tgController, store)
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
