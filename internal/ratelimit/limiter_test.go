package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const testIdentifier = "test_ratelimit_client"

// newTestLimiter requires a running Redis on localhost:6379.
func newTestLimiter(t *testing.T, rule Rule) *Limiter {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	client.Del(ctx, rule.Key+testIdentifier)
	t.Cleanup(func() {
		client.Del(ctx, rule.Key+testIdentifier)
		client.Close()
	})
	return NewLimiter(client)
}

func TestAllow_WithinAndOverLimit(t *testing.T) {
	rule := Rule{Key: "rl:test:", Limit: 3, Window: time.Minute}
	l := newTestLimiter(t, rule)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := l.Allow(ctx, testIdentifier, rule)
		if err != nil {
			t.Fatalf("Allow() error: %v", err)
		}
		if !ok {
			t.Errorf("request %d rejected, want allowed", i)
		}
	}

	ok, err := l.Allow(ctx, testIdentifier, rule)
	if err != nil {
		t.Fatalf("Allow() error: %v", err)
	}
	if ok {
		t.Error("request 4 allowed, want rejected")
	}
}

func TestCheckRule(t *testing.T) {
	r := CheckRule(10, 30*time.Second)
	if r.Key != "rl:check:" || r.Limit != 10 || r.Window != 30*time.Second {
		t.Errorf("CheckRule() = %+v", r)
	}
}
