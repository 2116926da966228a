package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	val  int64
	err  error
	keys []string
}

func (m *mockRedisEvaler) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	m.keys = append(m.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.val)
	return cmd
}

func TestMemoryRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("expected request %d to pass", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatalf("expected fourth request to be limited")
	}
}

func TestMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 1)

	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("expected first key to pass")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatalf("expected second key to pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatalf("expected first key to be limited")
	}
}

func TestMemoryRateLimiter_EmptyKeyDenied(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 5)
	if limiter.Allow("  ") {
		t.Fatalf("expected empty key to be denied")
	}
}

func TestRedisRateLimiter_AllowWithinLimit(t *testing.T) {
	mock := &mockRedisEvaler{val: 10}
	limiter := &redisRateLimiter{client: mock, window: 15 * time.Minute, max: 100, prefix: "rl:general:"}

	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("expected count below max to pass")
	}
	if len(mock.keys) != 1 || mock.keys[0] != "rl:general:10.0.0.1" {
		t.Fatalf("unexpected redis keys %v", mock.keys)
	}
}

func TestRedisRateLimiter_DeniesOverLimit(t *testing.T) {
	mock := &mockRedisEvaler{val: 11}
	limiter := &redisRateLimiter{client: mock, window: time.Minute, max: 10, prefix: "rl:ai:"}

	if limiter.Allow("10.0.0.1") {
		t.Fatalf("expected count above max to be limited")
	}
}

func TestRedisRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	mock := &mockRedisEvaler{err: errors.New("connection refused")}
	limiter := &redisRateLimiter{client: mock, window: time.Minute, max: 10, prefix: "rl:general:"}

	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("expected limiter to fail open when redis errors")
	}
}
