package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const refreshCookieName = "refresh_token"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	pair, err := s.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusOK).JSON(pair)
}

// handleRefresh accepts the refresh secret in the body, falling back to the
// cookie set on login for browser clients.
func (s *Server) handleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fiber.ErrBadRequest
	}

	secret := req.RefreshToken
	if secret == "" {
		secret = c.Cookies(refreshCookieName)
	}

	pair, err := s.auth.Refresh(c.UserContext(), secret)
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusOK).JSON(pair)
}

// handleMe returns the identity carried by the verified access token.
func (s *Server) handleMe(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	if claims == nil {
		return fiber.ErrUnauthorized
	}

	return c.JSON(fiber.Map{
		"userId": claims.Subject,
		"email":  claims.Email,
		"roles":  claims.Roles,
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(s.health.Check(c.UserContext()))
}

func (s *Server) setRefreshCookie(c *fiber.Ctx, secret string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    secret,
		Expires:  time.Now().Add(s.refreshTTL),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
