package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLimiter(rdb), mr
}

func TestAllow_UnderLimit(t *testing.T) {
	l, _ := newTestLimiter(t)
	p := Policy{Name: "auth", Max: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), p, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow error: %v", err)
		}
		if !ok {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
}

func TestAllow_OverLimit(t *testing.T) {
	l, _ := newTestLimiter(t)
	p := Policy{Name: "auth", Max: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(context.Background(), p, "1.2.3.4"); !ok {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	ok, err := l.Allow(context.Background(), p, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if ok {
		t.Fatalf("third hit must be rejected")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t)
	p := Policy{Name: "auth", Max: 1, Window: time.Minute}

	if ok, _ := l.Allow(context.Background(), p, "1.2.3.4"); !ok {
		t.Fatalf("first key should be allowed")
	}
	if ok, _ := l.Allow(context.Background(), p, "5.6.7.8"); !ok {
		t.Fatalf("a different key must have its own window")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	l, mr := newTestLimiter(t)
	p := Policy{Name: "auth", Max: 1, Window: time.Minute}

	if ok, _ := l.Allow(context.Background(), p, "1.2.3.4"); !ok {
		t.Fatalf("first hit should be allowed")
	}
	if ok, _ := l.Allow(context.Background(), p, "1.2.3.4"); ok {
		t.Fatalf("second hit in the window must be rejected")
	}

	mr.FastForward(2 * time.Minute)

	if ok, _ := l.Allow(context.Background(), p, "1.2.3.4"); !ok {
		t.Fatalf("window must reset after expiry")
	}
}

func TestAllow_RedisDownReturnsError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	l := NewLimiter(rdb)
	mr.Close()

	_, err := l.Allow(context.Background(), Policy{Name: "auth", Max: 1, Window: time.Minute}, "k")
	if err == nil {
		t.Fatalf("expected an error when redis is unreachable")
	}
}
