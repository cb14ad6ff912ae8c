package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/hireflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Take(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		allowed, remaining, _ := bucket.take()
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}

	allowed, remaining, reset := bucket.take()
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(2, 20.0)
	bucket.take()
	bucket.take()

	allowed, _, _ := bucket.take()
	require.False(t, allowed)

	time.Sleep(80 * time.Millisecond)

	allowed, _, _ = bucket.take()
	assert.True(t, allowed)
}

func TestLimiter_DefaultLimit(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/other", http.MethodGet)
		require.True(t, allowed)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/other", http.MethodGet)
	assert.False(t, allowed)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_AliasesShareBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(12, 4, time.Minute),
	})
	defer limiter.Stop()

	// suggest burst is 12/6 = 2
	allowed, _ := limiter.Allow("10.0.0.1", "/api/suggest-company", http.MethodPost)
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/api/sugerir-empresa", http.MethodPost)
	require.True(t, allowed)

	allowed, info := limiter.Allow("10.0.0.1", "/api/suggest-company", http.MethodPost)
	assert.False(t, allowed)
	assert.Equal(t, 12, info.Limit)
	assert.Equal(t, GroupSuggest, info.Group)

	// other clients and other groups are unaffected
	allowed, _ = limiter.Allow("10.0.0.2", "/api/sugerir-empresa", http.MethodPost)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/api/send-email", http.MethodPost)
	assert.True(t, allowed)
}

func TestLimiter_GroupIsBounded(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(30, 20, time.Minute),
		Blacklist:       map[string]bool{"10.0.0.66": true},
	})
	defer limiter.Stop()

	groups := make(map[string]bool)
	for i := 0; i < 50; i++ {
		path := fmt.Sprintf("/x/%d", i)
		_, info := limiter.Allow("10.0.0.1", path, http.MethodGet)
		groups[info.Group] = true
		_, info = limiter.Allow("10.0.0.66", path, http.MethodOptions)
		groups[info.Group] = true
	}
	assert.Equal(t, map[string]bool{GroupUnmatched: true, GroupUnlimited: true}, groups)

	_, info := limiter.Allow("10.0.0.1", "/api/send-email", http.MethodPost)
	assert.Equal(t, GroupSend, info.Group)
}

func TestLimiter_UnlimitedPaths(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", http.MethodGet)
		assert.True(t, allowed)
		allowed, _ = limiter.Allow("127.0.0.1", "/metrics", http.MethodGet)
		assert.True(t, allowed)
		allowed, _ = limiter.Allow("127.0.0.1", "/api/send-email", http.MethodOptions)
		assert.True(t, allowed)
	}
	assert.Equal(t, 0, limiter.Len())
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.9": true},
		Blacklist:     map[string]bool{"10.0.0.66": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.9", "/x", http.MethodGet)
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.66", "/x", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(FromSettings(config.RateLimitConfig{Enabled: false}))
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/api/send-email", http.MethodPost)
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := limiter.Allow("127.0.0.1", "/x", http.MethodGet); ok {
					allowedCount.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowedCount.Load())
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/x", http.MethodGet)
	}
	require.Equal(t, 3, limiter.Len())

	limiter.cleanupBuckets(time.Now())
	assert.Equal(t, 3, limiter.Len())

	limiter.cleanupBuckets(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, limiter.Len())
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.RateLimitConfig{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		SuggestLimit:    30,
		SendLimit:       20,
		Whitelist:       []string{" 10.0.0.1 ", ""},
		Blacklist:       []string{"10.0.0.2"},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, cfg.Whitelist)
	assert.Equal(t, map[string]bool{"10.0.0.2": true}, cfg.Blacklist)
	require.Len(t, cfg.EndpointConfigs, 3)

	send := MatchEndpoint("/api/send-email", http.MethodPost, cfg.EndpointConfigs)
	require.NotNil(t, send)
	assert.Equal(t, GroupSend, send.Group)
	assert.Equal(t, 20, send.Limit)
	assert.Equal(t, 5, send.Burst)

	assert.Nil(t, MatchEndpoint("/api/send-email", http.MethodGet, cfg.EndpointConfigs))
}

func TestMatchEndpoint_Prefix(t *testing.T) {
	configs := []EndpointConfig{{Path: "/api/", Method: http.MethodPost, Limit: 5}}
	assert.NotNil(t, MatchEndpoint("/api/anything", http.MethodPost, configs))
	assert.Nil(t, MatchEndpoint("/other", http.MethodPost, configs))
}
