package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// RateLimit bounds chat traffic per client IP using the Redis limiter.
// A nil limiter disables the middleware entirely.
func RateLimit(limiter *redis.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, reset, err := limiter.Allow(r.Context(), r.RemoteAddr)
			if err != nil {
				// limiter outage must not block chat
				log.Warn().Err(err).Msg("rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", reset.Format(time.RFC3339))

			if !allowed {
				response.TooManyRequests(w, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
