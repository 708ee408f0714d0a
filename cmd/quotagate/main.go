package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/quotagate/quotagate/modules"
	"github.com/quotagate/quotagate/pkg/config"
	"github.com/quotagate/quotagate/pkg/httpserver"
	"github.com/quotagate/quotagate/pkg/logger"
	mongodb "github.com/quotagate/quotagate/pkg/mongo"
	redisconn "github.com/quotagate/quotagate/pkg/redis"
	"github.com/quotagate/quotagate/svc/access"
	"github.com/quotagate/quotagate/svc/catalog"
	"github.com/quotagate/quotagate/svc/identity"
	"github.com/quotagate/quotagate/svc/subscription"
	"github.com/quotagate/quotagate/svc/usage"
)

type appConfig struct {
	Log      logger.Config
	HTTP     httpserver.Config
	Mongo    mongodb.Config
	Redis    redisconn.Config
	Identity identity.Config

	IdentityCacheEnabled bool          `env:"IDENTITY_CACHE_ENABLED" envDefault:"false"` // cache role lookups in redis
	IdentityCacheTTL     time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"5m"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log, os.Stdout)
	logger.SetAsDefault(log)

	ctx := context.Background()

	db, err := mongodb.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		log.Error("mongodb connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("mongodb disconnect failed", slog.Any("error", err))
		}
	}()

	health := []func(context.Context) error{mongodb.Healthcheck(db.Client())}

	var cache identity.Cache = identity.NoopCache{}
	if cfg.IdentityCacheEnabled {
		rdb, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("redis close failed", slog.Any("error", err))
			}
		}()
		cache = identity.NewRedisCache(rdb, cfg.IdentityCacheTTL)
		health = append(health, redisconn.Healthcheck(rdb))
	}

	planStore := catalog.NewMongoPlanStore(db)
	permStore := catalog.NewMongoPermissionStore(db)
	subStore := subscription.NewMongoStore(db)
	ledgerStore := usage.NewMongoStore(db)
	directory := identity.NewMongoDirectory(db)

	catalogSvc := catalog.NewService(planStore, permStore, log)
	usageSvc := usage.NewService(ledgerStore, log)
	subSvc := subscription.NewService(subStore, planStore, ledgerStore, log)
	engine := access.NewEngine(subStore, planStore, ledgerStore, log)
	gate := identity.NewGate(cfg.Identity, directory, cache, log)

	handler := modules.Router(modules.Deps{
		Log:           log,
		Gate:          gate,
		Engine:        engine,
		Catalog:       catalogSvc,
		Subscriptions: subSvc,
		Usage:         usageSvc,
		Health:        health,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler); err != nil {
		log.Error("http server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
