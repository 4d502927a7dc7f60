package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/config"
	"github.com/whale-spotting/whale_spotting/internal/hotspot"
	"github.com/whale-spotting/whale_spotting/internal/identity"
	"github.com/whale-spotting/whale_spotting/internal/middleware"
	"github.com/whale-spotting/whale_spotting/internal/sighting"
	"github.com/whale-spotting/whale_spotting/internal/species"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Outside of dev a
// database is mandatory; without one the repositories fall back to in-memory
// stores.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.AllowedOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var (
		userRepo     identity.Repository
		speciesRepo  species.Repository
		hotspotRepo  hotspot.Repository
		sightingRepo sighting.Repository
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		speciesRepo = species.NewPostgresRepository(d.DB)
		hotspotRepo = hotspot.NewPostgresRepository(d.DB)
		sightingRepo = sighting.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
		speciesRepo = species.NewMemoryRepository()
		hotspotRepo = hotspot.NewMemoryRepository()
		sightingRepo = sighting.NewMemoryRepository()
	}

	// Services and handlers
	identitySvc := identity.NewService(userRepo, d.Cfg.BcryptCost)
	tokens := auth.NewTokenService(d.Cfg)
	speciesSvc := species.NewService(speciesRepo, d.Cache)
	hotspotSvc := hotspot.NewService(hotspotRepo, sightingRepo)
	sightingSvc := sighting.NewService(sightingRepo, speciesRepo, hotspotRepo)

	authHandler := auth.NewHandler(identitySvc, tokens)
	userHandler := identity.NewHandler(identitySvc)
	speciesHandler := species.NewHandler(speciesSvc)
	hotspotHandler := hotspot.NewHandler(hotspotSvc)
	sightingHandler := sighting.NewHandler(sightingSvc)

	if d.Cfg.AdminUsername != "" {
		if _, err := identitySvc.EnsureAdmin(context.Background(), d.Cfg.AdminUsername, d.Cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	// Public routes: reads parse an optional token for personalization but
	// never require one.
	optional := middleware.OptionalAuth(tokens)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(app, authHandler, rateLimiter)
	RegisterSpeciesRoutes(app, speciesHandler, tokens, optional)
	RegisterHotspotRoutes(app, hotspotHandler, tokens, optional)
	RegisterSightingRoutes(app, sightingHandler, tokens, optional)
	RegisterUserRoutes(app, userHandler, tokens)

	return nil
}
