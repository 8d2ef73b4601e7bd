package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/api/routes"
	"github.com/harlandtools/commerce-backend/internal/catalog"
	"github.com/harlandtools/commerce-backend/internal/pricing"
	"github.com/harlandtools/commerce-backend/internal/quotes"
	"github.com/harlandtools/commerce-backend/internal/tax"
	"github.com/harlandtools/commerce-backend/pkg/config"
	"github.com/harlandtools/commerce-backend/pkg/db"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	"github.com/harlandtools/commerce-backend/pkg/logger"
	"github.com/harlandtools/commerce-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	if cfg.App.IsDev() {
		if err := dbClient.DB().AutoMigrate(
			&models.Product{},
			&models.ToolDiscountTier{},
			&models.CategoryPriceBreak{},
			&models.ShippingRate{},
			&models.DistributorPrice{},
			&models.OrderQuote{},
		); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.FeatureFlags.SnapshotCaching {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	domesticRate, err := decimal.NewFromString(cfg.Tax.DomesticRate)
	if err != nil {
		logg.Error(context.Background(), "invalid domestic tax rate", err)
		os.Exit(1)
	}
	resolver, err := tax.NewResolver(tax.DefaultRules(domesticRate))
	if err != nil {
		logg.Error(context.Background(), "failed to build tax resolver", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(resolver, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build pricing engine", err)
		os.Exit(1)
	}

	var snapshotCache *catalog.SnapshotCache
	if redisClient != nil {
		snapshotCache = catalog.NewSnapshotCache(redisClient, cfg.Catalog.SnapshotTTL)
	}
	loader := catalog.NewLoader(catalog.NewRepository(dbClient.DB()), snapshotCache, logg)

	var quoteRepo *quotes.Repository
	if cfg.FeatureFlags.PersistQuotes {
		quoteRepo = quotes.NewRepository(dbClient.DB())
	}
	quoteService, err := quotes.NewService(quotes.ServiceParams{
		Source:  loader,
		Engine:  engine,
		Repo:    quoteRepo,
		Persist: cfg.FeatureFlags.PersistQuotes,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build quote service", err)
		os.Exit(1)
	}

	var redisPinger redis.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisPinger, quoteService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
