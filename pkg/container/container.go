package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ams-gateway/internal/config"
	"ams-gateway/internal/session"
	"ams-gateway/internal/upstream"
	"ams-gateway/pkg/jwt"
	"ams-gateway/pkg/logger"

	inventoryHandler "ams-gateway/internal/domains/inventory/handler"
	inventoryService "ams-gateway/internal/domains/inventory/service"
	locationHandler "ams-gateway/internal/domains/location/handler"
	locationService "ams-gateway/internal/domains/location/service"
	"ams-gateway/internal/domains/request"
	requestHandler "ams-gateway/internal/domains/request/handler"
	requestService "ams-gateway/internal/domains/request/service"
	stockentryHandler "ams-gateway/internal/domains/stockentry/handler"
	stockentryService "ams-gateway/internal/domains/stockentry/service"
)

// Container holds every singleton dependency of the gateway. It is built
// once at startup; the wiring order is config, infrastructure, services,
// handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	Sessions   session.Store
	Upstream   *upstream.Client
	JWTManager *jwt.Manager

	// ========================================
	// SERVICE LAYER
	// ========================================

	RequestService    *requestService.Service
	StockEntryService *stockentryService.Service
	LocationService   *locationService.Service
	InventoryService  *inventoryService.Service

	// ========================================
	// HANDLER LAYER
	// ========================================

	RequestHandler    *requestHandler.Handler
	StockEntryHandler *stockentryHandler.Handler
	LocationHandler   *locationHandler.Handler
	InventoryHandler  *inventoryHandler.Handler
}

// NewContainer builds the full dependency graph.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)
	log.Info().
		Str("environment", cfg.App.Environment).
		Str("upstream", cfg.Upstream.BaseURL).
		Msg("configuration loaded")

	// Session store first: every workflow lives there. Startup fails fast
	// when Redis is unreachable rather than losing sessions mid-flow.
	store := session.NewRedisStore(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Sessions = store
	log.Info().Str("host", cfg.Redis.Host).Msg("session store connected")

	c.Upstream = upstream.New(cfg.Upstream)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// Services
	c.RequestService = requestService.NewService(c.Upstream, c.Sessions, cfg.Session.TTL, request.DefaultGatePolicy)
	c.StockEntryService = stockentryService.NewService(c.Upstream, c.Sessions, cfg.Session.TTL)
	c.LocationService = locationService.NewService(c.Upstream)
	c.InventoryService = inventoryService.NewService(c.Upstream)

	// Handlers
	c.RequestHandler = requestHandler.NewHandler(c.RequestService)
	c.StockEntryHandler = stockentryHandler.NewHandler(c.StockEntryService)
	c.LocationHandler = locationHandler.NewHandler(c.LocationService)
	c.InventoryHandler = inventoryHandler.NewHandler(c.InventoryService)

	log.Info().Msg("container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if store, ok := c.Sessions.(*session.RedisStore); ok {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session store")
		}
	}
}
