package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"boardcamp/internal/pkg/cache"
	"boardcamp/internal/pkg/logger"
)

const rateLimitMessage = "Limite de requisições excedido. Tente novamente mais tarde."

// RateLimiter limita requisições por IP com janela fixa no Redis (INCR + EXPIRE).
// Se o Redis falhar, a requisição segue: o limite não deve derrubar a API.
func RateLimiter(client cache.Client, limit int, period time.Duration, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rate-limit:" + clientIP(r)

			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			count, err := client.Incr(ctx, key, period)
			cancel()
			if err != nil {
				log.Warn("Falha ao consultar o rate limit no Redis; requisição liberada.", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(period.Seconds())))
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", rateLimitMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LocalRateLimiter é o limitador em memória (token bucket por IP) usado sem Redis.
type LocalRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter permite `limit` requisições por `period`, com rajada de até `limit`.
func NewLocalRateLimiter(limit int, period time.Duration) *LocalRateLimiter {
	return &LocalRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(period / time.Duration(limit)),
		burst:   limit,
		idleTTL: 15 * time.Minute,
	}
}

func (l *LocalRateLimiter) get(key string) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup remove os limitadores de IPs inativos.
func (l *LocalRateLimiter) Cleanup() {
	cutoff := time.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor limpa periodicamente as entradas inativas até ctx ser cancelado.
func (l *LocalRateLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// Middleware devolve o middleware HTTP do limitador.
func (l *LocalRateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lim := l.get(clientIP(r))
			if !lim.Allow() {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", rateLimitMessage)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(lim.Tokens())))
			next.ServeHTTP(w, r)
		})
	}
}
