package server

import (
	"fmt"
	"time"

	"community-calendar/core/cache"
	"community-calendar/core/config"
	"community-calendar/core/database"
	"community-calendar/core/logger"
	"community-calendar/core/middleware"
	"community-calendar/core/queue"
	"community-calendar/modules/auth"
	"community-calendar/modules/event"
	"community-calendar/modules/health"
	icsmodule "community-calendar/modules/ics"
	"community-calendar/modules/profile"
	"community-calendar/modules/submission"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Run wires configuration, storage, cache, queue, and all modules, then
// serves HTTP until the process exits.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := ""
	if !cfg.IsProduction() {
		logLevel = "debug"
	}
	logger.Init(logLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	cacheClient := cache.NewRedisCache(cfg.Redis)
	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowCredentials: true,
	}))

	// Rate limiting only in production, matching deployment policy:
	// 100 requests per 15 minutes per client IP.
	if cfg.IsProduction() {
		e.Use(echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
			Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(100.0 / (15 * 60)),
				Burst:     100,
				ExpiresIn: 15 * time.Minute,
			}),
		}))
	}

	authService := auth.GetService(db, cacheClient)
	mw := middleware.NewMiddleware(authService)

	auth.Init(e, authService, mw)
	event.Init(e, db, cacheClient, mw)
	icsmodule.Init(e, db)
	profile.Init(e, db, mw)
	submission.Init(e, queueClient)
	health.Init(e, db, cacheClient, mw)

	if cfg.Mail.Host != "" {
		go func() {
			if err := submission.RunMailWorker(cfg); err != nil {
				logger.Error("Server:MailWorker", "error", err)
			}
		}()
	} else {
		logger.Warn("Server:MailWorker:Disabled", "reason", "SMTP_HOST not configured")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server starting", "addr", addr, "env", cfg.Server.Env)
	return e.Start(addr)
}
