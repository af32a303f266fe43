package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func doLogin(router *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", nil)
	req.RemoteAddr = ip + ":40000"
	router.ServeHTTP(w, req)
	return w.Code
}

// The login route runs with 5 rps and a burst of 10: a full burst passes,
// the request after it is rejected with 429.
func TestRateLimit_LoginBurstThenReject(t *testing.T) {
	rl := NewRateLimiter(5, 10)
	router := limitedRouter(rl)

	for i := 0; i < 10; i++ {
		if code := doLogin(router, "172.16.0.9"); code != http.StatusOK {
			t.Fatalf("request %d within burst: status = %d, expected %d", i+1, code, http.StatusOK)
		}
	}

	if code := doLogin(router, "172.16.0.9"); code != http.StatusTooManyRequests {
		t.Errorf("request past burst: status = %d, expected %d", code, http.StatusTooManyRequests)
	}
}

func TestRateLimit_IPsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	router := limitedRouter(rl)

	if code := doLogin(router, "10.1.1.1"); code != http.StatusOK {
		t.Fatalf("first IP: status = %d, expected %d", code, http.StatusOK)
	}
	if code := doLogin(router, "10.1.1.1"); code != http.StatusTooManyRequests {
		t.Errorf("first IP exhausted: status = %d, expected %d", code, http.StatusTooManyRequests)
	}
	if code := doLogin(router, "10.1.1.2"); code != http.StatusOK {
		t.Errorf("second IP has its own budget: status = %d, expected %d", code, http.StatusOK)
	}
}

// sweep drops entries idle past the threshold and keeps active ones, so a
// returning client gets a fresh limiter instead of an unbounded map.
func TestRateLimit_SweepEvictsIdleEntries(t *testing.T) {
	rl := NewRateLimiter(5, 10)

	rl.getLimiter("10.2.0.1")
	rl.getLimiter("10.2.0.2")

	rl.mu.Lock()
	rl.limiters["10.2.0.1"].lastSeen = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	rl.sweep(10 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.limiters["10.2.0.1"]; ok {
		t.Error("idle entry survived sweep")
	}
	if _, ok := rl.limiters["10.2.0.2"]; !ok {
		t.Error("active entry was evicted")
	}
}

func TestRateLimit_RequestRefreshesLastSeen(t *testing.T) {
	rl := NewRateLimiter(5, 10)

	rl.getLimiter("10.3.0.1")
	rl.mu.Lock()
	rl.limiters["10.3.0.1"].lastSeen = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	// A new request from the same IP must reset the idle clock.
	rl.getLimiter("10.3.0.1")
	rl.sweep(10 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.limiters["10.3.0.1"]; !ok {
		t.Error("entry evicted despite a recent request")
	}
}
