// Package token encodes and decodes the signed access tokens issued by
// authgate. Tokens are HS256 JWTs carrying subject, email, and role claims.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sergejsb/authgate/internal/common"
)

// Claims is the claim set embedded in every access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Codec mints and verifies access tokens with a fixed secret, issuer,
// audience, and lifetime.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration

	// seam for deterministic expiry tests
	now func() time.Time
}

// NewCodec builds a Codec. An empty secret is a configuration error and
// returns common.ErrMissingSecret; there is no per-request recovery from it.
func NewCodec(secret, issuer, audience string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, common.ErrMissingSecret
	}
	return &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// TTL returns the configured access-token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Mint produces a signed token for the given user. The claim set carries the
// user id as subject, the email, one roles entry per role, a unique jti, an
// issued-at timestamp, and an expiry of exactly issued-at + ttl.
func (c *Codec) Mint(userID, email string, roles []string) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email: email,
		Roles: roles,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies a token string and returns its claims. Signature, issuer,
// audience, and expiry are all checked with zero leeway: a token is rejected
// the instant its expiry passes, with no clock-skew grace period.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
