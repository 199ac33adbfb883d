package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movingmatch/api"
	"movingmatch/config"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/notify"
	"movingmatch/service"
	"movingmatch/storage/postgres"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 3. Shared Storage (Postgres, runs migrations on startup)
	pgStore, err := postgres.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	// 4. Notification fan-out: local registry bridged over Redis so
	// every instance delivers every event to its own SSE clients.
	rdb, err := notify.NewRedisClient(ctx, cfg.RedisHost+":"+cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		log.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer rdb.Close()

	bus := notify.NewBus(notify.NewRegistry(), rdb, log)
	go bus.Run(ctx)

	var fan notify.Fanout = bus
	if cfg.TelegramBotToken != "" && cfg.TelegramAdminChatID != 0 {
		mirror, err := notify.NewTelegramMirror(bus, cfg.TelegramBotToken, cfg.TelegramAdminChatID, log)
		if err != nil {
			log.Error("failed to initialize telegram mirror", logger.Error(err))
			os.Exit(1)
		}
		fan = mirror
		log.Info("telegram ops mirror enabled")
	}

	// 5. Services + HTTP surface
	svc := service.New(pgStore, fan, cfg, log)
	router := api.NewRouter(svc, fan, cfg, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: router,
	}

	go func() {
		log.Info("http server is starting", logger.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Error(err))
	}
}
