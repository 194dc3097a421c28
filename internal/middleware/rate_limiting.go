package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per client IP on the wrapped routes.
// When the limiter backend is down, requests are let through.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routeName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP, err := pkg.ReadUserIP(r)
			if err != nil {
				clientIP = r.RemoteAddr
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				fmt.Sprintf("%s||%s", routeName, clientIP),
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", routeName, err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			http.Error(
				w,
				fmt.Sprintf("retry after %.0f seconds", math.Ceil(res.RetryAfter.Seconds())),
				http.StatusTooManyRequests,
			)
		})
	}
}
