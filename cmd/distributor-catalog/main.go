package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/internal/distributor"
	"github.com/harlandtools/commerce-backend/pkg/config"
	"github.com/harlandtools/commerce-backend/pkg/db"
	"github.com/harlandtools/commerce-backend/pkg/logger"
	"github.com/harlandtools/commerce-backend/pkg/metrics"
)

// Runs the distributor floor-price batch once and exits; the scheduler
// owns the cadence.
func main() {
	logg := logger.New(logger.Options{ServiceName: "distributor-catalog"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "distributor-catalog",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	floorPct, err := decimal.NewFromString(cfg.Distributor.FloorPct)
	if err != nil {
		logg.Error(context.Background(), "invalid distributor floor percentage", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewBatchJobMetrics(prometheus.DefaultRegisterer)
	service := distributor.NewService(distributor.NewRepository(dbClient.DB()), floorPct, logg, jobMetrics)

	summary, err := service.EnforceFloors(context.Background())

	ctx := logg.WithFields(context.Background(), map[string]any{
		"processed": summary.Processed,
		"adjusted":  summary.Adjusted,
		"skipped":   summary.Skipped,
	})
	logg.Info(ctx, "distributor catalog batch finished")

	if err != nil {
		logg.Error(context.Background(), "floor enforcement reported failures", err)
		os.Exit(1)
	}
}
