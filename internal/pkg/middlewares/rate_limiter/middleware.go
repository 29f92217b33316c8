package rate_limiter

import (
	"net/http"
	"strconv"

	"dispatch/pkg/logger"

	"github.com/gorilla/mux"
)

const (
	scopeGlobal = "global"
	scopeKey    = "key"
)

// Middleware общий лимит на весь сервис.
func Middleware(log handlerLogger, rateLimiterQPS int, rlimiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rlimiter.Allow() {
				reject(w, r, log, scopeGlobal, rateLimiterQPS, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// KeyedMiddleware лимит по ключу, который достается из запроса keyFn.
// Запросы с пустым ключом не ограничиваются.
func KeyedMiddleware(
	log handlerLogger,
	perKeyQPS int,
	keyFn func(r *http.Request) string,
	rlimiter KeyedLimiter,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key != "" && !rlimiter.Allow(key) {
				reject(w, r, log, scopeKey, perKeyQPS, key)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MuxVarKey ключ из переменной маршрута gorilla/mux.
func MuxVarKey(name string) func(r *http.Request) string {
	return func(r *http.Request) string {
		return mux.Vars(r)[name]
	}
}

func reject(w http.ResponseWriter, r *http.Request, log handlerLogger, scope string, limit int, key string) {
	handlerPath := r.URL.Path
	route := mux.CurrentRoute(r)
	if route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			handlerPath = template
		}
	}

	log.With(
		logger.NewField("method", r.Method),
		logger.NewField("path", r.URL.Path),
		logger.NewField("route", handlerPath),
		logger.NewField("scope", scope),
		logger.NewField("key", key),
		logger.NewField("remote_addr", r.RemoteAddr),
	).Warn("rate limit exceeded")

	RateLimitExceededTotal.WithLabelValues(r.Method, handlerPath, scope).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)

	_, err := w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Try again later."}`))
	if err != nil {
		log.With(
			logger.NewField("error", err),
			logger.NewField("path", r.URL.Path),
		).Error("failed to write rate limit response")
	}
}
