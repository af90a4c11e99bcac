// file: cmd/backfill/main.go
//
// backfill re-synchronizes achievement data that is deliberately denormalized
// at runtime: the identity snapshot captured at record creation, and the
// tasks_completed counters. Run it after bulk profile edits or data imports.
package main

import (
	"context"
	"flag"
	"time"

	"sprintdeck/internal/config"
	"sprintdeck/internal/database"
	"sprintdeck/internal/repositories"

	"go.uber.org/zap"
)

func main() {
	var (
		syncIdentity = flag.Bool("identity", true, "refresh identity snapshots from the users table")
		recountTasks = flag.Bool("recount", false, "rebuild tasks_completed from task history")
		timeout      = flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	records := repositories.NewAchievementRepository(db, logger)

	if *syncIdentity {
		updated, err := records.SyncIdentitySnapshots(ctx)
		if err != nil {
			logger.Fatal("Identity snapshot sync failed", zap.Error(err))
		}
		logger.Info("Identity snapshots synced", zap.Int64("records_updated", updated))
	}

	if *recountTasks {
		updated, err := records.RecountTaskStats(ctx)
		if err != nil {
			logger.Fatal("Task stat recount failed", zap.Error(err))
		}
		logger.Info("Task stats recounted", zap.Int64("records_updated", updated))
	}
}
