// Package services contains server-side business logic. This file implements
// AuthService, which verifies credentials and issues/rotates token pairs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sergejsb/authgate/internal/common"
	"github.com/sergejsb/authgate/internal/logging"
	"github.com/sergejsb/authgate/internal/refresh"
	"github.com/sergejsb/authgate/internal/server/repositories/repomanager"
	"github.com/sergejsb/authgate/internal/token"
)

// TokenPair is the caller-visible result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// tokenType is the fixed label returned with every pair.
const tokenType = "Bearer"

// AuthService ties the token codec, the refresh-token manager, and the
// credential store together for the login and refresh operations.
//
// Failure contract: every authentication-shaped failure surfaces as the one
// opaque common.ErrorUnauthorized; store failures propagate as wrapped errors
// so callers can treat an unavailable store differently from bad credentials.
type AuthService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	codec   *token.Codec
	refresh *refresh.Manager
	logger  logging.Logger
}

func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, codec *token.Codec, rt *refresh.Manager, logger logging.Logger) *AuthService {
	return &AuthService{
		db:      db,
		rm:      rm,
		codec:   codec,
		refresh: rt,
		logger:  logger.With("module", "auth_service"),
	}
}

// Login verifies the email/password pair and, on success, returns a freshly
// minted access token and a newly persisted refresh token.
//
// Empty email or password fails immediately without touching the store.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := s.rm.Users(s.db).GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.issuePair(ctx, user.ID, user.Email, user.RoleList())
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "email", user.Email)
	return pair, nil
}

// Refresh redeems a presented refresh-token secret: the matching record is
// revoked, a sibling is issued for the same user, and a new access token is
// minted from the user's current roles.
func (s *AuthService) Refresh(ctx context.Context, secret string) (*TokenPair, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, newSecret, err := s.refresh.Redeem(ctx, s.db, secret)
	if err != nil {
		return nil, err
	}

	user, err := s.rm.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	access, err := s.codec.Mint(user.ID, user.Email, user.RoleList())
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "token refreshed", "email", user.Email)
	return s.pair(access, newSecret), nil
}

func (s *AuthService) issuePair(ctx context.Context, userID, email string, roles []string) (*TokenPair, error) {
	access, err := s.codec.Mint(userID, email, roles)
	if err != nil {
		return nil, common.ErrorInternal
	}

	secret, _, err := s.refresh.Issue(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	return s.pair(access, secret), nil
}

func (s *AuthService) pair(access, refreshSecret string) *TokenPair {
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshSecret,
		ExpiresIn:    int64(s.codec.TTL() / time.Second),
		TokenType:    tokenType,
	}
}
