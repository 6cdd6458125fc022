package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/constant"
	"tablebook/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	headerRetryAfter  = "Retry-After"
)

// RateLimit counts requests per client in fixed windows. The window start is
// part of the key so a counter never outlives its window. The limiter fails
// open when the cache is unavailable.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable || limits.WindowSeconds <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			now := time.Now().Unix()
			window := int64(limits.WindowSeconds)
			start := now - now%window

			key := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r), strconv.FormatInt(start, 10))

			count := 0
			if err := a.cache.Get(r.Context(), key, &count); err != nil && !errors.Is(err, cache.Nil) {
				log.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			count++

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limits.MaxRequests-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if count > limits.MaxRequests {
				w.Header().Set(headerRetryAfter, strconv.FormatInt(start+window-now, 10))
				response.WithRequestLimitExceeded(w)

				return
			}

			if err := a.cache.Save(r.Context(), key, count, limits.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to record rate limit hit")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return "unknown"
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the peer address without its port.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
