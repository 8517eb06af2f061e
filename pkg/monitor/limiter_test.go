package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterStore_Basic(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	limiter := store.GetLimiter("device1")
	if limiter == nil {
		t.Fatal("expected limiter, got nil")
	}
	if limiter.Limit() != 1 {
		t.Errorf("expected limit 1, got %v", limiter.Limit())
	}
}

func TestRateLimiterStore_CustomLimit(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	store.SetLimiter("device2", 5, 10)
	limiter := store.GetLimiter("device2")

	assert.EqualValues(t, 5, limiter.Limit())
	assert.Equal(t, 10, limiter.Burst())
}

func TestRateLimiterStore_Forget(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	store.SetLimiter("device3", 5, 10)
	assert.Equal(t, 1, store.Size())

	store.Forget("device3")
	assert.Equal(t, 0, store.Size())

	// a forgotten device starts over on the defaults
	assert.Equal(t, 2, store.GetLimiter("device3").Burst())

	var nilStore *RateLimiterStore
	assert.True(t, nilStore.Allow("anything"))
	nilStore.Forget("anything")
}

func TestRateLimiterStore_Concurrency(t *testing.T) {
	store := NewRateLimiterStore(0, 5) // no refill, burst only
	deviceID := uuid.NewString()

	var wg sync.WaitGroup

	// Launch 100 goroutines that hit the same device concurrently
	allowed := make(chan bool, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- store.Allow(deviceID)
		}()
	}

	wg.Wait()
	close(allowed)

	granted := 0
	for ok := range allowed {
		if ok {
			granted++
		}
	}
	assert.Equal(t, 5, granted)
	assert.Equal(t, 1, store.Size())
}

func TestRateLimiter_Enforcement(t *testing.T) {
	store := NewRateLimiterStore(2, 2) // 2 events/sec

	deviceID := uuid.NewString()

	// Consume two tokens
	if !store.Allow(deviceID) || !store.Allow(deviceID) {
		t.Fatal("expected first two calls to be allowed")
	}

	// This call should fail immediately
	if store.Allow(deviceID) {
		t.Error("expected third call to be rate limited")
	}

	// Wait for refill
	time.Sleep(600 * time.Millisecond)
	if !store.Allow(deviceID) {
		t.Error("expected one token to be available after refill")
	}
}
