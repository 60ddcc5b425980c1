package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/volunteerhub/server/internal/config"
	"github.com/volunteerhub/server/internal/database"
	"github.com/volunteerhub/server/internal/handler"
	"github.com/volunteerhub/server/internal/middleware"
	"github.com/volunteerhub/server/internal/queue"
	"github.com/volunteerhub/server/internal/repository"
	"github.com/volunteerhub/server/internal/router"
)

func main() {
	// A local .env is optional; in production everything comes from the
	// process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	sponsorships := repository.NewSponsorshipRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	eventHandler := handler.NewEventHandler(events)
	sponsorshipHandler := handler.NewSponsorshipHandler(sponsorships, events, users)

	// Redis is optional: with no client the limiter and cache pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Notification consumer runs for the life of the process and keeps
	// reconnecting on broker failures.
	go queue.StartNotificationConsumer()

	e := echo.New()
	e.HideBanner = true
	if cfg.CORSOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.CORSOrigin},
			AllowCredentials: true,
		}))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterEvents(e, eventHandler, sponsorshipHandler, cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
