// Package router assembles the echo instance: global middleware, the access
// policy and the /v1 routes.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/config"
	"github.com/iliyamo/cinema-showtime-service/internal/handler"
	"github.com/iliyamo/cinema-showtime-service/internal/middleware"
)

// Deps carries everything the routes need.  Redis may be nil, which turns
// the response cache and the rate limiter off.
type Deps struct {
	Movies    handler.MovieService
	Reviews   handler.ReviewService
	Showtimes handler.ShowtimeService
	Auth      auth.Provider
	Tokens    *handler.TokenHandler
	JWTSecret string
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Log       *logrus.Logger
}

// New builds the HTTP server.  Middleware order: request log, panic
// recovery, authentication, access policy, rate limit, response cache.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(
		middleware.RequestLogger(d.Log),
		echomw.Recover(),
		middleware.Authenticate(d.Auth, d.JWTSecret, d.Log),
		middleware.Policy(middleware.DefaultRules()),
		middleware.RateLimit(d.RateLimit, d.Redis, d.Log),
		middleware.ResponseCache(d.Cache, d.Redis, d.Log),
	)

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	registerMovies(v1, handler.NewMovieHandler(d.Movies))
	registerReviews(v1, handler.NewReviewHandler(d.Reviews))
	registerShowtimes(v1, handler.NewShowtimeHandler(d.Showtimes))
	if d.Tokens != nil {
		v1.POST("/auth/token", d.Tokens.Issue)
	}
	return e
}

func registerMovies(g *echo.Group, h *handler.MovieHandler) {
	g.GET("/movies", h.List)
	g.GET("/movies/:id", h.Get)
	g.GET("/movies/details/:id", h.Details)
}

func registerReviews(g *echo.Group, h *handler.ReviewHandler) {
	g.GET("/reviews", h.List)
	g.POST("/reviews", h.Create)
	g.DELETE("/reviews/:id", h.Delete)
}

func registerShowtimes(g *echo.Group, h *handler.ShowtimeHandler) {
	g.GET("/showtimes", h.Schedule)
	g.POST("/showtimes", h.Create)
	g.GET("/showtimes/:id", h.Get)
	g.PUT("/showtimes/:id", h.Update)
	g.PATCH("/showtimes/:id", h.Update)
	g.DELETE("/showtimes/:id", h.Delete)
}
