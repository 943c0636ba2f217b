package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
)

// clientLimiter — лимитер одного клиента с отметкой последнего обращения.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов на клиента (по IP).
// Простаивающие лимитеры вычищаются попутно при обращениях — без фоновой
// горутины, чтобы каждый построенный роутер не тянул за собой тикер.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

// NewRateLimiter создаёт лимитер с заданными rps/burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Middleware возвращает мидлвар, отклоняющий запросы сверх лимита с 429.
// Нулевой rps делает мидлвар no-op.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		if rl.rps <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientKey(r)) {
				apierrors.WriteError(w, r, apierrors.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const (
	sweepInterval = time.Minute
	maxIdle       = 3 * time.Minute
)

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > sweepInterval {
		rl.sweepLocked(now)
	}

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	return cl.limiter.Allow()
}

// sweepLocked удаляет простаивающие лимитеры. Вызывается под rl.mu.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > maxIdle {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// clientKey определяет клиента по IP без порта; при невозможности
// распарсить адрес используется RemoteAddr целиком.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
