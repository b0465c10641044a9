package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatalf("expected allowed on first request")
	}
	if count != 1 {
		t.Fatalf("expected counter 1 got %d", count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected expire for first increment")
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expire should not be set again")
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestSlidingWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for i := 0; i < 5; i++ {
		allowed, count, err := client.SlidingWindowAllow(ctx, "orders:user-1", 5, time.Minute)
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if count != int64(i+1) {
			t.Fatalf("attempt %d: expected count %d got %d", i+1, i+1, count)
		}
	}

	allowed, count, err := client.SlidingWindowAllow(ctx, "orders:user-1", 5, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("sixth attempt within the window should be rejected")
	}
	if count != 5 {
		t.Fatalf("expected count 5 at rejection, got %d", count)
	}

	// Attempts outside the window stop counting.
	mock.rewindZSet(client.RateLimitKey("orders:user-1"), 2*time.Minute)
	allowed, _, err = client.SlidingWindowAllow(ctx, "orders:user-1", 5, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatalf("expected allowance once old attempts left the window")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "slx:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "slx:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.CounterKey("hits"); got != "slx:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
	if got := client.CheckoutSessionKey("user-1"); got != "slx:checkout:session:user-1" {
		t.Fatalf("unexpected checkout session key %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	zsets       map[string]map[string]float64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:  make(map[string]string),
		incr:  make(map[string]int64),
		zsets: make(map[string]map[string]float64),
	}
}

// rewindZSet shifts every member's score back, simulating time passing.
func (m *mockCmdable) rewindZSet(key string, by time.Duration) {
	for member, score := range m.zsets[key] {
		m.zsets[key][member] = score - float64(by.Nanoseconds())
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
		delete(m.zsets, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	set, ok := m.zsets[key]
	if !ok {
		set = make(map[string]float64)
		m.zsets[key] = set
	}
	var added int64
	for _, member := range members {
		name := fmt.Sprint(member.Member)
		if _, exists := set[name]; !exists {
			added++
		}
		set[name] = member.Score
	}
	return redis.NewIntResult(added, nil)
}

func (m *mockCmdable) ZCard(ctx context.Context, key string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(m.zsets[key])), nil)
}

func (m *mockCmdable) ZRemRangeByScore(ctx context.Context, key, min, max string) *redis.IntCmd {
	set := m.zsets[key]
	var removed int64
	for member, score := range set {
		if scoreInRange(score, min, max) {
			delete(set, member)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func scoreInRange(score float64, min, max string) bool {
	inMin := min == "-inf"
	if !inMin {
		var bound float64
		fmt.Sscanf(min, "%f", &bound)
		inMin = score >= bound
	}
	inMax := max == "+inf"
	if !inMax {
		var bound float64
		fmt.Sscanf(max, "%f", &bound)
		inMax = score <= bound
	}
	return inMin && inMax
}
