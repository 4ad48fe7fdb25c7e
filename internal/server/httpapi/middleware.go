package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sergejsb/authgate/internal/common"
	"github.com/sergejsb/authgate/internal/ratelimit"
	"github.com/sergejsb/authgate/internal/token"
)

const claimsLocalKey = "claims"

// requireAccessToken verifies the Authorization bearer token and stashes its
// claims for the handler.
func (s *Server) requireAccessToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return common.ErrorUnauthorized
	}

	claims, err := s.codec.Parse(raw)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			// hint for clients to trigger their refresh flow
			c.Set("X-Token-Expired", "true")
		}
		return common.ErrorUnauthorized
	}

	c.Locals(claimsLocalKey, claims)
	return c.Next()
}

func claimsFromCtx(c *fiber.Ctx) *token.Claims {
	claims, _ := c.Locals(claimsLocalKey).(*token.Claims)
	return claims
}

// limit enforces a fixed-window policy keyed by client IP. A limiter error
// (redis down) fails open.
func (s *Server) limit(p ratelimit.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := s.limiter.Allow(c.UserContext(), p, c.IP())
		if err != nil {
			s.logger.Warn(c.UserContext(), "rate limiter unavailable", "policy", p.Name, "error", err)
			return c.Next()
		}
		if !allowed {
			return common.ErrRateLimited
		}
		return c.Next()
	}
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return err
}
