// internal/server/router.go
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/controller"
	"github.com/unclebandit/storefront-backend/internal/handler"
	"github.com/unclebandit/storefront-backend/internal/metrics"
	"github.com/unclebandit/storefront-backend/internal/web"
)

type Deps struct {
	Customers *controller.CustomerController
	Products  *handler.ProductHandler
	Health    *handler.HealthHandler
	Shell     *web.ShellHandler
	Log       *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, log, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Customer routes. Method dispatch happens in the controller so
	// unsupported methods get a JSON 405.
	r.HandleFunc("/customers", d.Customers.ServeHTTP)
	r.HandleFunc("/customers/", d.Customers.ServeHTTP)
	r.HandleFunc("/customers/{id}", d.Customers.ServeHTTP)

	r.Get("/products", d.Products.ListProductsHandler)
	r.Get("/healthz", d.Health.HealthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", d.Shell.ServeHTTP)
	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))

	return r
}

func writeError(w http.ResponseWriter, log *zap.Logger, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Warn("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
