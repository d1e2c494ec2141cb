package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/bakesync/internal/server/handlers"
)

// fakeNow - управляемые часы для limiter
type fakeNow struct {
	t  time.Time
	mu sync.Mutex
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestLimiter(rate int, window time.Duration) (*RateLimiter, *fakeNow) {
	clock := &fakeNow{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rate, window)
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, clock := newTestLimiter(3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("account:a")
		assert.True(t, ok, "request %d", i+1)
	}

	clock.Advance(20 * time.Second)
	ok, retryAfter := rl.Allow("account:a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retryAfter)

	// Другие ключи считаются отдельно
	ok, _ = rl.Allow("account:b")
	assert.True(t, ok)

	clock.Advance(40 * time.Second)
	ok, _ = rl.Allow("account:a")
	assert.True(t, ok, "new window")
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)
	defer rl.Stop()

	rl.Allow("ip:10.0.0.1")
	clock.Advance(3 * time.Minute)
	rl.Allow("ip:10.0.0.2")
	rl.cleanupOldBuckets()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.buckets, 1)
	assert.Contains(t, rl.buckets, "ip:10.0.0.2")
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimitMiddleware_KeysByAccount(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	defer rl.Stop()

	handler := RateLimitMiddleware(rl, setupTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(account, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", nil)
		req.RemoteAddr = ip + ":5555"
		if account != "" {
			req = req.WithContext(handlers.WithAccountID(req.Context(), account))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("bakery-1", "10.0.0.1").Code)

	// тот же аккаунт с другого адреса
	w := do("bakery-1", "10.0.0.2")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// другой аккаунт с того же адреса
	assert.Equal(t, http.StatusOK, do("bakery-2", "10.0.0.1").Code)

	// без аккаунта - по IP
	assert.Equal(t, http.StatusOK, do("", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("", "10.0.0.1").Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		headers    map[string]string
		name       string
		remoteAddr string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "remote addr without port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
		{name: "forwarded for", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, want: "203.0.113.5"},
		{name: "real ip", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, want: "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
