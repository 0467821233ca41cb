package main

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lmarsolier/gestloc/internal/config"
	"github.com/lmarsolier/gestloc/internal/database"
	"github.com/lmarsolier/gestloc/internal/handler"
	"github.com/lmarsolier/gestloc/internal/middleware"
	"github.com/lmarsolier/gestloc/internal/queue"
	"github.com/lmarsolier/gestloc/internal/renderer"
	"github.com/lmarsolier/gestloc/internal/repository"
	"github.com/lmarsolier/gestloc/internal/router"
	"github.com/lmarsolier/gestloc/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Must(logger.New())
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if err := database.Migrate(db, cfg.DBName); err != nil {
		log.Fatal("database migrate failed", zap.Error(err))
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	sections := repository.NewSectionRepo(db)
	items := repository.NewItemRepo(db)
	inventories := repository.NewInventoryRepo(db)
	leases := repository.NewLeaseRepo(db)
	invites := repository.NewInviteRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	owner := handler.NewOwnerHandler(properties, sections, items, inventories, leases, invites, users)
	owner.Renderer = renderer.New(cfg.RendererURL)
	owner.InviteTTL = cfg.InviteTTLDays
	owner.BcryptCost = cfg.BcryptCost
	tenant := handler.NewTenantHandler(leases)
	invite := handler.NewInviteHandler(cfg, invites, leases, users, tokens)

	// Redis backs the response cache and the rate limiter. When it is down
	// both are skipped and the API serves straight from the database.
	var extra []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			extra = append(extra, middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			extra = append(extra, middleware.NewRedisCache(cacheCfg, rdb))
		}
	} else {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, invite)
	router.RegisterOwner(e, owner, cfg.JWTSecret, extra...)
	router.RegisterTenant(e, tenant, cfg.JWTSecret, extra...)

	go queue.StartNotificationConsumer(logger.Named(log, "notifications"))

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
