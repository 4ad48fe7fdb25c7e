// Package httpapi exposes the REST surface of authgate: login, refresh, the
// current-user endpoint, and the health probe.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/sergejsb/authgate/internal/logging"
	"github.com/sergejsb/authgate/internal/ratelimit"
	"github.com/sergejsb/authgate/internal/server/config"
	"github.com/sergejsb/authgate/internal/server/services"
	"github.com/sergejsb/authgate/internal/token"
)

const shutdownTimeout = 5 * time.Second

// authService is the part of the auth orchestrator the handlers call.
type authService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, secret string) (*services.TokenPair, error)
}

// healthService is the connectivity probe the health handler calls.
type healthService interface {
	Check(ctx context.Context) *services.HealthReport
}

// Server wires the fiber application: routes, middleware, and shutdown.
type Server struct {
	app     *fiber.App
	address string
	logger  logging.Logger

	auth    authService
	health  healthService
	codec   *token.Codec
	limiter *ratelimit.Limiter

	refreshTTL time.Duration
	authPolicy ratelimit.Policy
	apiPolicy  ratelimit.Policy
}

func NewServer(cfg *config.Config, l logging.Logger, auth authService, health healthService, codec *token.Codec, limiter *ratelimit.Limiter) *Server {
	s := &Server{
		address:    cfg.EndpointAddr,
		logger:     l.With("module", "http_server"),
		auth:       auth,
		health:     health,
		codec:      codec,
		limiter:    limiter,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		authPolicy: ratelimit.Policy{Name: "auth", Max: cfg.AuthRateLimit, Window: cfg.RateLimitWindow},
		apiPolicy:  ratelimit.Policy{Name: "api", Max: cfg.APIRateLimit, Window: cfg.RateLimitWindow},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowCredentials: true,
	}))
	app.Use(s.logRequests)

	api := app.Group("/api", s.limit(s.apiPolicy))
	api.Get("/health", s.handleHealth)

	auth1 := api.Group("/v1/auth")
	auth1.Post("/login", s.limit(s.authPolicy), s.handleLogin)
	auth1.Post("/refresh", s.limit(s.authPolicy), s.handleRefresh)
	auth1.Get("/me", s.requireAccessToken, s.handleMe)

	s.app = app
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping http server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting http server", "address", s.address)
	return s.app.Listen(s.address)
}
