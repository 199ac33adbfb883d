package main

import (
	"context"
	"fmt"

	"movingmatch/config"
	"movingmatch/pkg/logger"
	"movingmatch/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)

	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// CASCADE takes addresses, estimates and reviews along with their
	// requests. Driver offices and driver_stats are kept: they are
	// registration data, not lifecycle data.
	_, err = pg.GetPool().Exec(context.Background(),
		"TRUNCATE TABLE estimate_requests, estimates, notifications, audit_log CASCADE")
	if err != nil {
		log.Error(fmt.Sprintf("failed to truncate tables: %v", err))
	} else {
		log.Info("truncated estimate_requests, estimates, notifications and audit_log.")
	}
}
