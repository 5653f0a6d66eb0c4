// Package container builds the long-lived dependencies of the service from
// configuration and tears them down again.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/config"
	"github.com/iliyamo/cinema-showtime-service/internal/database"
	"github.com/iliyamo/cinema-showtime-service/internal/handler"
	"github.com/iliyamo/cinema-showtime-service/internal/logger"
	"github.com/iliyamo/cinema-showtime-service/internal/omdb"
	"github.com/iliyamo/cinema-showtime-service/internal/queue"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
	"github.com/iliyamo/cinema-showtime-service/internal/router"
	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

type Container struct {
	Config    config.Config
	DB        *sqlx.DB
	Redis     *redis.Client // nil when Redis is unreachable
	Logger    *logrus.Logger
	Publisher service.EventPublisher
	Auth      auth.Provider

	Users     *repository.UserRepo
	Movies    *service.MovieService
	Reviews   *service.ReviewService
	Showtimes *service.ShowtimeService

	closePublisher func() error
}

// New connects to MySQL and, when reachable, Redis, then wires the
// repositories, the metadata client, the event publisher and the services.
func New(ctx context.Context, cfg config.Config) (*Container, error) {
	log := logger.Get()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.WithField("db", cfg.DBName).Info("Database connection successful")

	rdb := config.NewRedisClient(ctx, log)

	users := repository.NewUserRepo(db)
	provider, err := newAuthProvider(cfg, users)
	if err != nil {
		_ = db.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("failed to initialize authentication: %w", err)
	}

	var (
		pub      service.EventPublisher = queue.NopPublisher{}
		closePub                        = func() error { return nil }
	)
	if cfg.Events.Enabled {
		p := queue.NewPublisher(cfg.Events, log)
		pub, closePub = p, p.Close
		log.WithField("queue", cfg.Events.Queue).Info("Activity events enabled")
	}

	metadata := omdb.NewClient(omdb.ClientConfig{
		BaseURL:    cfg.OMDb.BaseURL,
		APIKey:     cfg.OMDb.APIKey,
		Timeout:    cfg.OMDb.Timeout,
		RatePerSec: cfg.OMDb.RatePerSec,
		CacheTTL:   cfg.OMDb.CacheTTL,
		Logger:     log,
		Redis:      rdb,
	})
	if cfg.OMDb.APIKey == "" {
		log.Warn("OMDB_API_KEY is not set, movie details will be unavailable")
	}

	movieRepo := repository.NewMovieRepo(db)
	return &Container{
		Config:         cfg,
		DB:             db,
		Redis:          rdb,
		Logger:         log,
		Publisher:      pub,
		Auth:           provider,
		Users:          users,
		Movies:         service.NewMovieService(movieRepo, metadata, log),
		Reviews:        service.NewReviewService(movieRepo, repository.NewReviewRepo(db), pub, log),
		Showtimes:      service.NewShowtimeService(movieRepo, repository.NewShowtimeRepo(db), pub, log),
		closePublisher: closePub,
	}, nil
}

func newAuthProvider(cfg config.Config, users *repository.UserRepo) (auth.Provider, error) {
	if cfg.Auth.Provider == "db" {
		return auth.NewStoreProvider(users), nil
	}
	return auth.NewStaticProvider(auth.DefaultAccounts(cfg.Auth.UserPassword, cfg.Auth.AdminPassword), cfg.BcryptCost)
}

// Router builds the HTTP server over the container's services.
func (c *Container) Router() *echo.Echo {
	return router.New(router.Deps{
		Movies:    c.Movies,
		Reviews:   c.Reviews,
		Showtimes: c.Showtimes,
		Auth:      c.Auth,
		Tokens:    handler.NewTokenHandler(c.Config.JWTSecret, time.Duration(c.Config.AccessTTLMin)*time.Minute),
		JWTSecret: c.Config.JWTSecret,
		Cache:     c.Config.Cache,
		RateLimit: c.Config.RateLimit,
		Redis:     c.Redis,
		Log:       c.Logger,
	})
}

func (c *Container) Close() {
	if err := c.closePublisher(); err != nil {
		c.Logger.WithError(err).Warn("Failed to close event publisher")
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
		c.Logger.Info("Redis connection closed")
	}
	if c.DB != nil {
		_ = c.DB.Close()
		c.Logger.Info("Database connection closed")
	}
}
