package rate_limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	perSecond = rate.Limit(25)
	burst     = 50
)

// Configure sets the per-visitor limit. Call before serving traffic.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	perSecond = rate.Limit(rps)
	burst = b
}

// GetVisitor returns the limiter for an address, creating it on first sight.
func GetVisitor(addr string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[addr]
	if !exists {
		limiter := rate.NewLimiter(perSecond, burst)
		visitors[addr] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop drops limiters for addresses idle longer than five
// minutes. Run it in its own goroutine.
func StartVisitorCleanupLoop() {
	for {
		time.Sleep(time.Minute)
		mu.Lock()
		for addr, v := range visitors {
			if time.Since(v.lastSeen) > 5*time.Minute {
				delete(visitors, addr)
			}
		}
		mu.Unlock()
	}
}
