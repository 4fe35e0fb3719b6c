package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing
	"github.com/redis/go-redis/v9"

	"github.com/iberstay/hotel-distribution/internal/config"
	"github.com/iberstay/hotel-distribution/internal/handler"
	"github.com/iberstay/hotel-distribution/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check used by
// load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; logout revokes one session.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterDistribution registers the public search surface and the
// protected booking surface.  The aggregated search endpoint carries a
// Redis response cache and a token-bucket rate limit when a Redis client
// is available; both degrade to no-ops otherwise.
func RegisterDistribution(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	av *handler.AvailabilityHandler, s *handler.SearchHandler, b *handler.BookingHandler, st *handler.StayHandler) {

	// Public read side: direct inventory availability plus the multi-provider search.
	e.GET("/v1/availability", av.Get)
	e.GET("/v1/search", s.Get,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Booking requires an authenticated user; the profile becomes the
	// paying guest forwarded to the provider.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.POST("/bookings", b.Post)
	auth.GET("/bookings", b.List)
	auth.GET("/bookings/:locator", b.GetByLocator)

	// Front-desk lifecycle for inventory reservations.
	auth.POST("/reservations/:id/cancel", st.Cancel)
	auth.POST("/reservations/:id/checkin", st.CheckIn)
	auth.POST("/contracts/:id/checkout", st.CheckOut)
}
