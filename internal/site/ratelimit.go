package site

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token bucket per client address. Idle buckets
// expire so the map does not grow without bound.
type ipLimiter struct {
	mu       sync.Mutex
	perMin   int
	limiters *cache.Cache
}

func newIPLimiter(perMinute int) *ipLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ipLimiter{
		perMin:   perMinute,
		limiters: cache.New(10*time.Minute, 10*time.Minute),
	}
}

// Allow reports whether the client may submit now. A nil limiter allows everything.
func (l *ipLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var lim *rate.Limiter
	if v, ok := l.limiters.Get(key); ok {
		lim = v.(*rate.Limiter)
	} else {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)
	}
	l.limiters.Set(key, lim, cache.DefaultExpiration)
	return lim.Allow()
}

func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
