package token

import (
	"errors"
	"testing"
	"time"

	"github.com/sergejsb/authgate/internal/common"
)

func newTestCodec(t *testing.T, ttl time.Duration) *Codec {
	t.Helper()
	c, err := NewCodec("super-secret", "https://issuer.test", "https://audience.test", ttl)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("", "iss", "aud", time.Hour)
	if !errors.Is(err, common.ErrMissingSecret) {
		t.Fatalf("want ErrMissingSecret, got %v", err)
	}
}

func TestMintAndParse_Success(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)

	tok, err := c.Mint("user-123", "alice@example.com", []string{"User", "Admin"})
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	claims, err := c.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "User" || claims.Roles[1] != "Admin" {
		t.Fatalf("roles mismatch: got %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestMint_ExpiryIsExactlyIssuedAtPlusTTL(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, 60*time.Minute)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	tok, err := c.Mint("u1", "u1@example.com", []string{"User"})
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	claims, err := c.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(fixed) {
		t.Fatalf("iat mismatch: got %v want %v", claims.IssuedAt.Time, fixed)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(60 * time.Minute)) {
		t.Fatalf("exp mismatch: got %v want %v", claims.ExpiresAt.Time, fixed.Add(60*time.Minute))
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, -1*time.Second)

	tok, err := c.Mint("u1", "u1@example.com", nil)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	_, err = c.Parse(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)
	other, err := NewCodec("other-secret", "https://issuer.test", "https://audience.test", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}

	tok, err := other.Mint("u2", "u2@example.com", nil)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	if _, err := c.Parse(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestParse_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)

	stranger, err := NewCodec("super-secret", "https://elsewhere.test", "https://audience.test", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	tok, err := stranger.Mint("u3", "u3@example.com", nil)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	if _, err := c.Parse(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for wrong issuer, got %v", err)
	}

	stranger, err = NewCodec("super-secret", "https://issuer.test", "https://elsewhere.test", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	tok, err = stranger.Mint("u3", "u3@example.com", nil)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	if _, err := c.Parse(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for wrong audience, got %v", err)
	}
}

func TestParse_MalformedString(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, time.Hour)
	if _, err := c.Parse("not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for malformed token, got %v", err)
	}
}
