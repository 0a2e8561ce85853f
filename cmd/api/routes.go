package main

import (
	"context"
	"net/http"
	"time"

	"catalogapi/internal/config"
	"catalogapi/internal/httpx"
)

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// registrar is a resource handler that mounts its own routes.
type registrar interface {
	Register(mux *http.ServeMux)
}

func newRouter(db pinger, handlers ...registrar) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			httpx.LoggerFrom(r.Context()).Warn("readiness check failed", "error", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	for _, h := range handlers {
		h.Register(router)
	}
	return router
}

// newHandler wraps the router in the middleware stack, outermost first.
func newHandler(cfg config.Config, router http.Handler, limiter *httpx.RateLimitMiddleware) http.Handler {
	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
